// cmd/tkf-check/main.go
package main

import (
	"tkfalign/internal/appshell"
	"tkfalign/internal/checkapp"
)

func main() {
	appshell.Main(checkapp.RunContext)
}
