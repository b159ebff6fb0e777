package navigation

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdugdh24/confhub-backend/internal/domain"
)

// WalkingSpeed is the assumed pace in meters per second.
const WalkingSpeed = 1.2

var connectorKeywords = []string{"escalera", "ascensor"}

// Waypoint is one step of a route.
type Waypoint struct {
	domain.Point
	Instruction string `json:"instruction"`
}

// Route is a waypoint path with its planar length and walking time.
type Route struct {
	Path                 []Waypoint `json:"path"`
	TotalDistance        float64    `json:"total_distance"`
	EstimatedTimeSeconds float64    `json:"estimated_time_seconds"`
}

// FindRoute builds a path between two points. Paths on one floor are a
// straight line; paths across floors go through the first stairs or
// elevator beacon. Obstacles are not considered.
func FindRoute(from, to domain.Point, beacons []*domain.Beacon) Route {
	path := []Waypoint{{Point: from}}

	if from.Floor != to.Floor {
		if name, at, ok := connector(beacons); ok {
			path[0].Instruction = fmt.Sprintf("Camina hacia %s", name)
			path = append(path,
				Waypoint{
					Point:       domain.Point{X: at.X, Y: at.Y, Floor: from.Floor},
					Instruction: fmt.Sprintf("Sube/Baja al piso %d", to.Floor),
				},
				Waypoint{
					Point:       domain.Point{X: at.X, Y: at.Y, Floor: to.Floor},
					Instruction: "Continúa caminando",
				},
			)
		}
	}
	if path[0].Instruction == "" {
		path[0].Instruction = "Camina hacia tu destino"
	}
	path = append(path, Waypoint{Point: to, Instruction: "Has llegado a tu destino"})

	var total float64
	for i := 1; i < len(path); i++ {
		total += Distance(path[i-1].Point, path[i].Point)
	}
	return Route{Path: path, TotalDistance: total, EstimatedTimeSeconds: total / WalkingSpeed}
}

// connector returns the first beacon with coordinates named like stairs or an elevator.
func connector(beacons []*domain.Beacon) (string, domain.Point, bool) {
	for _, b := range beacons {
		p, ok := b.Point()
		if !ok {
			continue
		}
		name := strings.ToLower(b.Name)
		for _, kw := range connectorKeywords {
			if strings.Contains(name, kw) {
				return b.Name, p, true
			}
		}
	}
	return "", domain.Point{}, false
}

// Distance is the planar Euclidean distance, ignoring floors.
func Distance(a, b domain.Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
