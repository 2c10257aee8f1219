//go:build !linux

package session

func isTerminal(fd int) bool { return false }
