// cmd/tkf-bench/main.go
package main

import (
	"tkfalign/internal/appshell"
	"tkfalign/internal/benchapp"
)

func main() {
	appshell.Main(benchapp.RunContext)
}
