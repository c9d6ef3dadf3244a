package navgrid

// exampleRows is a 32x32 test level, top row first.
var exampleRows = []string{
	"################################",
	"#..............................#",
	"#..............................#",
	"#..............................#",
	"#..............................#",
	"#..............................#",
	"#..............................#",
	"#..............................#",
	"#..............................#",
	"#..............................#",
	"#..............................#",
	"#........................#.....#",
	"#.......................####...#",
	"#..............................#",
	"#.#.........##.................#",
	"#.#........#####...............#",
	"#.#.#........................###",
	"#####....................##..###",
	"#####............###.....##....#",
	"#.........###............##....#",
	"#......########..........###...#",
	"#......########.......######...#",
	"####......#####.......#######..#",
	"#....................##........#",
	"#..............................#",
	"######...........#..........####",
	"######...........#..........####",
	"######.........#####........#..#",
	"######.........#####...###..#..#",
	"######.......#######...###..##.#",
	"######.......#######...###.....#",
	"################################",
}
