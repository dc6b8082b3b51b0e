package main

import (
	"context"

	"github.com/cube2222/lazyplan/cmd"
)

func main() {
	cmd.Execute(context.Background())
}
