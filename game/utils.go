package game

import "github.com/minaorangina/boss/deck"

func containsColor(s []deck.Color, needle deck.Color) bool {
	for _, c := range s {
		if c == needle {
			return true
		}
	}
	return false
}

func containsInt(s []int, needle int) bool {
	for _, n := range s {
		if n == needle {
			return true
		}
	}
	return false
}
