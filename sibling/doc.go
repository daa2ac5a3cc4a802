// Package sibling houses the concrete implementation of the
// core.SiblingRegistry: the parent → children spawn hierarchy that lets a
// newly created agent discover its peers. Only single edges are tracked;
// there is no transitive ancestry and cleanup never cascades.
package sibling
