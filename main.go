/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package main

import "github.com/Teja20002/EZY-Management/cmd"

func main() {
	cmd.Execute()
}
