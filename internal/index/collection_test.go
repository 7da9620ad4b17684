package index

import (
	"fmt"
	"sync"
	"testing"

	"github.com/MrSnakeDoc/harbor/internal/domain"
)

func host(name, user string) *domain.Bookmark {
	b := domain.NewBookmark(domain.ProtocolFTP, name)
	b.Credentials.Username = user
	return b
}

func TestNewCollection(t *testing.T) {
	c := NewCollection(nil)
	if c == nil {
		t.Fatal("NewCollection() returned nil")
	}
	if c.Len() != 0 {
		t.Errorf("NewCollection() should start empty, got %d", c.Len())
	}
}

func TestAddPreservesOrderAndRejectsDuplicates(t *testing.T) {
	c := NewCollection(domain.SameHost)

	if !c.Add(host("b.example.net", "u")) {
		t.Fatal("Add() first should succeed")
	}
	if !c.Add(host("a.example.net", "u")) {
		t.Fatal("Add() second should succeed")
	}
	if c.Add(host("B.example.net", "u")) {
		t.Error("Add() of an equal bookmark should be refused")
	}
	if c.Add(nil) {
		t.Error("Add(nil) should be refused")
	}

	all := c.All()
	if len(all) != 2 {
		t.Fatalf("All() = %d bookmarks, want 2", len(all))
	}
	if all[0].Hostname != "b.example.net" || all[1].Hostname != "a.example.net" {
		t.Errorf("insertion order not preserved: %s, %s", all[0].Hostname, all[1].Hostname)
	}
}

func TestAddClearsPassword(t *testing.T) {
	c := NewCollection(nil)
	b := host("ftp.example.net", "alice")
	b.Credentials.Password = "secret"

	c.Add(b)

	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
	if got := c.All()[0]; got.Credentials.Password != "" {
		t.Errorf("admitted bookmark still holds password %q", got.Credentials.Password)
	}
}

func TestFilter(t *testing.T) {
	existing := NewCollection(nil)
	existing.Add(host("dup.example.net", "alice"))

	batch := NewCollection(nil)
	batch.Add(host("new.example.net", "alice"))
	batch.Add(host("dup.example.net", "alice"))
	batch.Add(host("dup.example.net", "bob"))

	removed := batch.Filter(existing)

	if len(removed) != 1 || removed[0].Hostname != "dup.example.net" {
		t.Fatalf("Filter() removed %v, want only dup.example.net/alice", removed)
	}
	if batch.Len() != 2 {
		t.Errorf("Filter() left %d bookmarks, want 2", batch.Len())
	}
	for _, b := range batch.All() {
		if domain.SameHost(b, host("dup.example.net", "alice")) {
			t.Error("Filter() kept a bookmark present in existing")
		}
	}
}

func TestFilterSelfAndNil(t *testing.T) {
	c := NewCollection(nil)
	c.Add(host("a.example.net", ""))

	if removed := c.Filter(c); removed != nil {
		t.Errorf("Filter(self) should be a no-op, removed %v", removed)
	}
	if removed := c.Filter(nil); removed != nil {
		t.Errorf("Filter(nil) should be a no-op, removed %v", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestRemove(t *testing.T) {
	c := NewCollection(nil)
	c.Add(host("a.example.net", ""))
	c.Add(host("b.example.net", ""))

	if !c.Remove(host("A.example.net", "")) {
		t.Error("Remove() should succeed for an equal bookmark")
	}
	if c.Remove(host("a.example.net", "")) {
		t.Error("Remove() twice should fail")
	}
	if c.Len() != 1 || c.All()[0].Hostname != "b.example.net" {
		t.Errorf("Remove() left %v, want only b.example.net", c.All())
	}
}

func TestConcurrentAdd(t *testing.T) {
	c := NewCollection(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c.Add(host(fmt.Sprintf("h%d.example.net", i), ""))
		}(i)
		// Same host from a second goroutine must not produce a duplicate
		go func(i int) {
			defer wg.Done()
			c.Add(host(fmt.Sprintf("h%d.example.net", i), ""))
		}(i)
	}
	wg.Wait()

	if c.Len() != 50 {
		t.Errorf("concurrent Add() produced %d bookmarks, want 50", c.Len())
	}
}
