// cmd/tkf-batch/main.go
package main

import (
	"tkfalign/internal/appshell"
	"tkfalign/internal/batchapp"
)

func main() {
	appshell.Main(batchapp.RunContext)
}
