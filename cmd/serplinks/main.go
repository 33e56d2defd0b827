package main

import (
	cmd "github.com/ermoeini/google-serp-filtered-external-links/internal/cli"
)

func main() {
	cmd.Execute()
}
