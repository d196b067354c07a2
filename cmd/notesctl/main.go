// Command notesctl runs one note operation per invocation against the
// configured stores and prints the result as JSON.
package main

import (
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	Execute()
}
