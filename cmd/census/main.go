package main

import "github.com/byq630/us-census-income-analysis/internal/cli"

func main() {
	cli.Execute()
}
