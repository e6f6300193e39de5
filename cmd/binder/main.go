// Command binder compiles a directory of documents into a single HTML or
// Markdown file.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
