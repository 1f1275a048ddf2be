package nextver

import (
	"errors"
	"fmt"
)

// ExampleParse shows the accepted form and the leading-zero policy.
func ExampleParse() {
	v, err := Parse("1.02.3")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(v)

	_, err = Parse("1.2.3.4")
	var formatErr *VersionFormatError
	fmt.Println(errors.As(err, &formatErr))
	// Output:
	// 1.2.3
	// true
}

// ExampleClassify shows that a single feature outweighs any number of fixes.
func ExampleClassify() {
	fmt.Println(Classify([]string{"fix: bug", "feat: add widget", "chore: cleanup"}))
	fmt.Println(Classify([]string{"fix: bug", "fix(api)!: rename fields"}))
	fmt.Println(Classify(nil))
	// Output:
	// minor
	// major
	// patch
}

// ExampleComputeNext walks the manifest version 2.4.1 through a minor release.
func ExampleComputeNext() {
	current := MustParse("2.4.1")
	bump := Classify([]string{"fix: bug", "feat: add widget", "chore: cleanup"})

	next, err := ComputeNext(current, bump)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%s -> %s (%s)\n", current, next, bump)
	// Output:
	// 2.4.1 -> 2.5.0 (minor)
}
