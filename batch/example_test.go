package batch_test

import (
	"context"
	"fmt"

	"github.com/janosh/matterviz-sub000/batch"
	"github.com/janosh/matterviz-sub000/internal/fixture"
	"github.com/janosh/matterviz-sub000/matcher"
	"github.com/janosh/matterviz-sub000/structure"
)

// ExampleRunner_Group groups a rotated copy of copper with the original.
func ExampleRunner_Group() {
	cu := fixture.FCC("Cu", 3.6)
	xs := []structure.Structure{cu, fixture.BCC("Fe", 2.87), fixture.RotatedZ(cu, 45)}

	r := batch.New(matcher.Must(matcher.DefaultOptions()), batch.Options{Workers: 2})
	groups, err := r.Group(context.Background(), xs)
	if err != nil {
		panic(err)
	}
	fmt.Println(groups)
	// Output: [[0 2] [1]]
}
