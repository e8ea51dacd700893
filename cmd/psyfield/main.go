// cmd/psyfield/main.go
package main

import (
	"psyfield/internal/app"
	"psyfield/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
