// cmd/tkf-align/main.go
package main

import (
	"tkfalign/internal/alignapp"
	"tkfalign/internal/appshell"
)

func main() {
	appshell.Main(alignapp.RunContext)
}
