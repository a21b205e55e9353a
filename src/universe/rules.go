package universe

//nextState applies the B3/S23 rule to one cell
func nextState(alive bool, neighbours uint8) bool {
	switch {
	case alive && neighbours < 2:
		//underpopulation
		return false
	case alive && (neighbours == 2 || neighbours == 3):
		return true
	case alive && neighbours > 3:
		//overpopulation
		return false
	case !alive && neighbours == 3:
		//reproduction
		return true
	}
	return alive
}
