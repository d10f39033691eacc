package main

import "echobox/internal/app"

func main() {
	app.Run()
}
