package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "crane-demo:", err)
		os.Exit(1)
	}
}
