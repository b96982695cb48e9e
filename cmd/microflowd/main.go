package main

import "github.com/zakahfir/microflow-ai/internal/app"

func main() {
	app.Run()
}
