package registry

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/hupe1980/agentcomm/core"
)

// Interface compliance (compile-time assertion)
var _ core.IdentityRegistry = (*InMemoryRegistry)(nil)

func TestInMemoryRegistry_AliasBijection(t *testing.T) {
	reg := NewInMemoryRegistry()
	a1 := reg.RegisterOrGetAlias("id-a")
	a2 := reg.RegisterOrGetAlias("id-b")
	if a1 != "agent1" || a2 != "agent2" {
		t.Fatalf("expected sequential aliases, got %q, %q", a1, a2)
	}
	// idempotent
	if again := reg.RegisterOrGetAlias("id-a"); again != a1 {
		t.Fatalf("repeat registration changed alias: %q -> %q", a1, again)
	}
	// distinct ids never share an alias
	seen := map[string]bool{a1: true, a2: true}
	for i := 0; i < 50; i++ {
		alias := reg.RegisterOrGetAlias(fmt.Sprintf("id-%d", i))
		if seen[alias] {
			t.Fatalf("alias %q reused", alias)
		}
		seen[alias] = true
	}
}

func TestInMemoryRegistry_AliasNeverReusedAfterRemove(t *testing.T) {
	reg := NewInMemoryRegistry()
	reg.RegisterOrGetAlias("id-a")
	reg.Remove("id-a")
	if alias := reg.RegisterOrGetAlias("id-b"); alias != "agent2" {
		t.Fatalf("expected agent2 after removal, got %q", alias)
	}
	// re-registering the removed id allocates a fresh alias too
	if alias := reg.RegisterOrGetAlias("id-a"); alias != "agent3" {
		t.Fatalf("expected agent3 for re-registered id, got %q", alias)
	}
}

func TestInMemoryRegistry_Status(t *testing.T) {
	reg := NewInMemoryRegistry()
	reg.RegisterOrGetAlias("id-a")
	if _, ok := reg.Status("agent1"); !ok {
		t.Fatalf("expected known alias")
	}
	reg.SetStatus("id-a", "indexing the repo")
	if desc, _ := reg.Status("agent1"); desc != "indexing the repo" {
		t.Fatalf("unexpected status %q", desc)
	}
	// overwritten, not appended
	reg.SetStatus("id-a", "writing tests")
	if desc, _ := reg.Status("agent1"); desc != "writing tests" {
		t.Fatalf("expected overwrite, got %q", desc)
	}
	if _, ok := reg.Status("agent99"); ok {
		t.Fatalf("expected absent status for unknown alias")
	}
	// SetStatus registers implicitly
	reg.SetStatus("id-new", "late joiner")
	if desc, ok := reg.Status("agent2"); !ok || desc != "late joiner" {
		t.Fatalf("implicit registration failed: %q %v", desc, ok)
	}
}

func TestInMemoryRegistry_ListOthersOrder(t *testing.T) {
	reg := NewInMemoryRegistry()
	for _, id := range []string{"x", "y", "z"} {
		reg.RegisterOrGetAlias(id)
	}
	others := reg.ListOthers("y")
	if len(others) != 2 || others[0].Alias != "agent1" || others[1].Alias != "agent3" {
		t.Fatalf("unexpected listing: %#v", others)
	}
	if got := len(reg.List()); got != 3 {
		t.Fatalf("expected 3 identities, got %d", got)
	}
}

func TestInMemoryRegistry_Resolve(t *testing.T) {
	reg := NewInMemoryRegistry()
	reg.RegisterOrGetAlias("id-a")
	reg.RegisterOrGetAlias("id-b")
	rctx := core.ResolveContext{CallerID: "id-b", ParentID: "id-a"}

	if id, err := reg.Resolve("agent1", rctx); err != nil || id != "id-a" {
		t.Fatalf("alias resolution failed: %v %q", err, id)
	}
	if id, err := reg.Resolve("id-b", rctx); err != nil || id != "id-b" {
		t.Fatalf("raw id resolution failed: %v %q", err, id)
	}
	if id, err := reg.Resolve(core.TokenParent, rctx); err != nil || id != "id-a" {
		t.Fatalf("parent token resolution failed: %v %q", err, id)
	}
	// parent token without hierarchy data fails like any unknown token
	if _, err := reg.Resolve(core.TokenParent, core.ResolveContext{CallerID: "id-b"}); err == nil {
		t.Fatalf("expected error resolving parent without hierarchy")
	}
}

func TestInMemoryRegistry_UnknownRecipientErrorContents(t *testing.T) {
	reg := NewInMemoryRegistry()
	reg.RegisterOrGetAlias("id-a")
	reg.RegisterOrGetAlias("id-b")
	_, err := reg.Resolve("agent9", core.ResolveContext{})
	var unknownErr *core.UnknownRecipientError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownRecipientError, got %T", err)
	}
	if unknownErr.Target != "agent9" {
		t.Fatalf("unexpected target %q", unknownErr.Target)
	}
	if len(unknownErr.Known) != 2 || unknownErr.Known[0] != "agent1" || unknownErr.Known[1] != "agent2" {
		t.Fatalf("expected registration-ordered aliases, got %#v", unknownErr.Known)
	}
}

func TestInMemoryRegistry_ConcurrentRegistration(t *testing.T) {
	reg := NewInMemoryRegistry()
	wg := sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reg.RegisterOrGetAlias(fmt.Sprintf("id-%d", i%10))
			reg.ListOthers("id-0")
		}(i)
	}
	wg.Wait()
	if got := len(reg.List()); got != 10 {
		t.Fatalf("expected 10 identities, got %d", got)
	}
	aliases := map[string]bool{}
	for _, ident := range reg.List() {
		if aliases[ident.Alias] {
			t.Fatalf("duplicate alias %q under concurrency", ident.Alias)
		}
		aliases[ident.Alias] = true
	}
}
