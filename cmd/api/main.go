package main

import (
	"os"
)

// @title           Blog API
// @version         1.0
// @description     CRUD API for blog posts
// @BasePath        /
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
