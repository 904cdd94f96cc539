package main

import "qup/internal/qup"

func main() {
	qup.Main()
}
