/*
Package domain contains the core domain models and decision logic for anilink.

It defines the subject record, the closed set of lifecycle classes and the pure
transition validator. This package is kept free of I/O, locking and persistence;
those concerns live in the ports and adapters packages.

# Key Entities

  - Subject: a named entity with one immutable action label and one mutable state.
  - Class: the logical lifecycle class of a state value (Dormant, Idle, Active).
  - Edge: a legal move between two classes in the transition table.
  - TransitionError: a rejected state change, unwrapping to ErrInvalidTransition or ErrInvalidState.

# Lifecycle

	dormant <-> idle <-> <action label>

A subject can never move directly between dormant and its action label; it must
pass through idle. Requesting the alias "action" always means "this subject's
action label".
*/
package domain
