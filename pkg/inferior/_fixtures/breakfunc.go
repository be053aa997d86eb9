package main

import "fmt"

//go:noinline
func sayhi(n int) {
	fmt.Println("hi", n)
}

func main() {
	sayhi(1)
	sayhi(2)
}
