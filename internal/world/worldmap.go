package world

import (
	"fmt"
	"strings"
)

// mapDepth caps the breadth-first walk for the map command.
const mapDepth = 5

// cellWidth is the room-name width inside each bracketed map cell.
const cellWidth = 11

// dirVectors maps planar directions to unit grid offsets. Up and down are
// not drawn.
var dirVectors = map[string][2]int{
	"north":     {0, 1},
	"south":     {0, -1},
	"east":      {1, 0},
	"west":      {-1, 0},
	"northeast": {1, 1},
	"northwest": {-1, 1},
	"southeast": {1, -1},
	"southwest": {-1, -1},
}

type gridCell struct {
	roomID string
	label  string
}

// RenderMap draws an ASCII grid of the rooms reachable from startID within
// mapDepth steps. The starting cell renders as "You"; connectors are drawn
// for the eight planar directions between occupied cells.
func (w *World) RenderMap(startID string) string {
	start := w.rooms[startID]
	if start == nil {
		return ""
	}

	type visit struct {
		id    string
		x, y  int
		depth int
	}

	cells := map[[2]int]*gridCell{}
	placed := map[string][2]int{}

	queue := []visit{{id: startID}}
	placed[startID] = [2]int{0, 0}
	cells[[2]int{0, 0}] = &gridCell{roomID: startID, label: "You"}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= mapDepth {
			continue
		}
		room := w.rooms[cur.id]
		for dir, dest := range room.Loc.Exits {
			vec, drawable := dirVectors[dir]
			if !drawable {
				continue
			}
			if _, seen := placed[dest]; seen {
				continue
			}
			pos := [2]int{cur.x + vec[0], cur.y + vec[1]}
			if _, occupied := cells[pos]; occupied {
				continue
			}
			placed[dest] = pos
			cells[pos] = &gridCell{roomID: dest, label: w.rooms[dest].Loc.Name}
			queue = append(queue, visit{id: dest, x: pos[0], y: pos[1], depth: cur.depth + 1})
		}
	}

	minX, maxX, minY, maxY := 0, 0, 0, 0
	for pos := range cells {
		minX, maxX = min(minX, pos[0]), max(maxX, pos[0])
		minY, maxY = min(minY, pos[1]), max(maxY, pos[1])
	}

	connected := func(x, y int, dir string) bool {
		cell := cells[[2]int{x, y}]
		if cell == nil {
			return false
		}
		room := w.rooms[cell.roomID]
		dest, ok := room.Loc.Exits[dir]
		if !ok {
			return false
		}
		vec := dirVectors[dir]
		neighbor := cells[[2]int{x + vec[0], y + vec[1]}]
		return neighbor != nil && neighbor.roomID == dest
	}

	var b strings.Builder
	for y := maxY; y >= minY; y-- {
		// Room row with east-west connectors.
		for x := minX; x <= maxX; x++ {
			if cell := cells[[2]int{x, y}]; cell != nil {
				b.WriteString("[" + padCell(cell.label) + "]")
			} else {
				b.WriteString(strings.Repeat(" ", cellWidth+2))
			}
			if x < maxX {
				if connected(x, y, "east") || connected(x+1, y, "west") {
					b.WriteString("---")
				} else {
					b.WriteString("   ")
				}
			}
		}
		b.WriteString("\n")

		if y == minY {
			break
		}

		// Connector row with north-south and diagonal links.
		for x := minX; x <= maxX; x++ {
			ns := connected(x, y, "south") || connected(x, y-1, "north")
			half := (cellWidth + 2) / 2
			if ns {
				b.WriteString(strings.Repeat(" ", half) + "|" + strings.Repeat(" ", cellWidth+1-half))
			} else {
				b.WriteString(strings.Repeat(" ", cellWidth+2))
			}
			if x < maxX {
				se := connected(x, y, "southeast") || connected(x+1, y-1, "northwest")
				sw := connected(x+1, y, "southwest") || connected(x, y-1, "northeast")
				switch {
				case se && sw:
					b.WriteString("X  ")
				case se:
					b.WriteString("\\  ")
				case sw:
					b.WriteString("/  ")
				default:
					b.WriteString("   ")
				}
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// padCell centers a name inside the fixed cell width, truncating long names.
func padCell(name string) string {
	if len(name) > cellWidth {
		return name[:cellWidth]
	}
	pad := cellWidth - len(name)
	left := pad / 2
	return fmt.Sprintf("%s%s%s", strings.Repeat(" ", left), name, strings.Repeat(" ", pad-left))
}
