package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Document hooks
	d := NoopDocumentHooks{}
	d.OnLoadStart(ctx, "synth.patch.json")
	d.OnLoadComplete(ctx, "synth.patch.json", 10, 12, time.Second, nil)
	d.OnSaveStart(ctx, "synth.patch.json")
	d.OnSaveComplete(ctx, "synth.patch.json", 2048, time.Second, nil)

	// Routing hooks
	r := NoopRoutingHooks{}
	r.OnRouteStart(ctx, 12)
	r.OnRouteComplete(ctx, 12, time.Second)

	// Revision hooks
	v := NoopRevisionHooks{}
	v.OnRevisionSaved(ctx, "doc-1", 1024)
	v.OnRevisionPruned(ctx, "doc-1", 3)
	v.OnStoreError(ctx, "save", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Document().(NoopDocumentHooks); !ok {
		t.Error("Document() should return NoopDocumentHooks by default")
	}
	if _, ok := Routing().(NoopRoutingHooks); !ok {
		t.Error("Routing() should return NoopRoutingHooks by default")
	}
	if _, ok := Revision().(NoopRevisionHooks); !ok {
		t.Error("Revision() should return NoopRevisionHooks by default")
	}

	// Set custom hooks
	customDoc := &testDocumentHooks{}
	SetDocumentHooks(customDoc)
	if Document() != customDoc {
		t.Error("SetDocumentHooks should set custom hooks")
	}

	customRouting := &testRoutingHooks{}
	SetRoutingHooks(customRouting)
	if Routing() != customRouting {
		t.Error("SetRoutingHooks should set custom hooks")
	}

	customRevision := &testRevisionHooks{}
	SetRevisionHooks(customRevision)
	if Revision() != customRevision {
		t.Error("SetRevisionHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Document().(NoopDocumentHooks); !ok {
		t.Error("Reset() should restore NoopDocumentHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testDocumentHooks{}
	SetDocumentHooks(custom)

	// Setting nil should be ignored
	SetDocumentHooks(nil)

	if Document() != custom {
		t.Error("SetDocumentHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testDocumentHooks struct{ NoopDocumentHooks }
type testRoutingHooks struct{ NoopRoutingHooks }
type testRevisionHooks struct{ NoopRevisionHooks }
