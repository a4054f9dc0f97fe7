package anilink_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/anilink"
	"github.com/aretw0/anilink/pkg/domain"
)

func Example() {
	link, err := anilink.New()
	if err != nil {
		panic(err)
	}
	defer link.Close()

	ctx := context.Background()
	_ = link.Connect(ctx, "dog", "barks")

	for _, requested := range []string{"idle", "action", "dormant", "idle", "dormant", "action"} {
		state, err := link.SetState(ctx, "dog", requested)
		switch {
		case errors.Is(err, domain.ErrInvalidTransition):
			fmt.Printf("%-7s -> refused\n", requested)
		case err != nil:
			fmt.Printf("%-7s -> error: %v\n", requested, err)
		default:
			fmt.Printf("%-7s -> %s\n", requested, state)
		}
	}

	_ = link.Disconnect(ctx, "dog")
	_, err = link.GetState(ctx, "dog")
	fmt.Println(err)

	// Output:
	// idle    -> idle
	// action  -> barks
	// dormant -> refused
	// idle    -> idle
	// dormant -> dormant
	// action  -> refused
	// subject not found: "dog"
}
