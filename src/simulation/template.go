package simulation

//Template represent the seeding template which can used to settle the universe with predefined data
type Template struct {
	Name        string  //template name
	Descr       string  //template descr
	Coordinates [][]int //array of [x,y] coordinates
}

//built-in templates, placed near the top left corner
var (
	Block   = Template{"block", "still life, 2x2 square", [][]int{{1, 1}, {2, 1}, {1, 2}, {2, 2}}}
	Blinker = Template{"blinker", "period 2 oscillator", [][]int{{1, 2}, {2, 2}, {3, 2}}}
	Glider  = Template{"glider", "moves one cell diagonally every 4 generations", [][]int{{2, 1}, {3, 2}, {1, 3}, {2, 3}, {3, 3}}}

	DefaultTemplates = []Template{Block, Blinker, Glider}
)
