/*
Package anilink is a registry of named subjects with a guarded three-state lifecycle.

Every subject has one immutable action label (its own "active" designation, e.g.
"barks") and one mutable state: dormant, idle, or the action label itself. The
registry never lets a subject jump straight between dormant and active; it must
pass through idle.

# Concept

The decision logic (pkg/domain) is a pure function of the current state, the
subject's action label and the requested state. The registry (pkg/registry)
owns the records, serializes access per subject and commits only what the
validator accepts. Storage is pluggable behind ports.SubjectStore: memory by
default, Redis to share subjects between replicas.

# Usage

	link, err := anilink.New()
	if err != nil {
		log.Fatal(err)
	}
	defer link.Close()

	ctx := context.Background()
	_ = link.Connect(ctx, "dog", "barks")

	link.SetState(ctx, "dog", "idle")   // "idle"
	link.SetState(ctx, "dog", "action") // "barks"
	link.SetState(ctx, "dog", "dormant") // ErrInvalidTransition

Rejections are reported as errors wrapping domain.ErrNotFound,
domain.ErrInvalidTransition or domain.ErrInvalidState; use errors.Is to branch.
*/
package anilink
