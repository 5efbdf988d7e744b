package viewer

import (
	"image"
	"image/color"
	"math"
)

// fillTriangle fills a triangle on an image using a scanline algorithm
func fillTriangle(img *image.RGBA, x1, y1, x2, y2, x3, y3 float64, col color.RGBA) {
	vertices := [][2]float64{
		{x1, y1},
		{x2, y2},
		{x3, y3},
	}

	// Sort vertices by Y coordinate (top to bottom)
	if vertices[0][1] > vertices[1][1] {
		vertices[0], vertices[1] = vertices[1], vertices[0]
	}
	if vertices[1][1] > vertices[2][1] {
		vertices[1], vertices[2] = vertices[2], vertices[1]
	}
	if vertices[0][1] > vertices[1][1] {
		vertices[0], vertices[1] = vertices[1], vertices[0]
	}

	x1, y1 = vertices[0][0], vertices[0][1]
	x2, y2 = vertices[1][0], vertices[1][1]
	x3, y3 = vertices[2][0], vertices[2][1]

	bounds := img.Bounds()

	for y := int(math.Max(0, math.Ceil(y1))); y <= int(math.Min(float64(bounds.Max.Y-1), y3)); y++ {
		fy := float64(y)
		intersections := make([]float64, 0, 3)

		if y1 != y2 && fy >= y1 && fy <= y2 {
			intersections = append(intersections, x1+(fy-y1)/(y2-y1)*(x2-x1))
		}
		if y2 != y3 && fy >= y2 && fy <= y3 {
			intersections = append(intersections, x2+(fy-y2)/(y3-y2)*(x3-x2))
		}
		if y1 != y3 && fy >= y1 && fy <= y3 {
			intersections = append(intersections, x1+(fy-y1)/(y3-y1)*(x3-x1))
		}
		if len(intersections) < 2 {
			continue
		}

		xStart, xEnd := intersections[0], intersections[0]
		for _, x := range intersections[1:] {
			xStart = math.Min(xStart, x)
			xEnd = math.Max(xEnd, x)
		}

		// Clamp to image bounds
		xStart = math.Max(0, xStart)
		xEnd = math.Min(float64(bounds.Max.X-1), xEnd)

		for x := int(math.Ceil(xStart)); x <= int(xEnd); x++ {
			img.SetRGBA(x, y, col)
		}
	}
}

// fillDisc fills a circle of radius r pixels around (cx, cy)
func fillDisc(img *image.RGBA, cx, cy, r int, col color.RGBA) {
	bounds := img.Bounds()
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			if (x-cx)*(x-cx)+(y-cy)*(y-cy) > r*r {
				continue
			}
			if x >= 0 && x < bounds.Max.X && y >= 0 && y < bounds.Max.Y {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// drawLine draws a line on an image using Bresenham's algorithm
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := img.Bounds()

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx, sy := -1, -1
	if x1 < x2 {
		sx = 1
	}
	if y1 < y2 {
		sy = 1
	}

	err := dx - dy

	for {
		if x1 >= 0 && x1 < bounds.Max.X && y1 >= 0 && y1 < bounds.Max.Y {
			img.SetRGBA(x1, y1, col)
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
