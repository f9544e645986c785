package main

import (
	"github.com/stridezone/storefront/cmd"
)

func main() {
	cmd.Start()
}
