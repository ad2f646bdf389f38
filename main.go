/*
Copyright © 2025 orthoime
*/
package main

import (
	"github.com/joho/godotenv"

	"github.com/orthoime/medicase-be/cmd"
)

func main() {
	cmd.Execute()
}

func init() {
	godotenv.Load()
}
