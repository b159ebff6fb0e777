package navigation

import (
	"math"
	"testing"

	"github.com/gdugdh24/confhub-backend/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func beacon(name string, x, y float64, floor int) *domain.Beacon {
	return &domain.Beacon{Name: name, X: ptr(x), Y: ptr(y), Floor: ptr(floor)}
}

func TestFindRouteAcrossFloors(t *testing.T) {
	t.Parallel()

	beacons := []*domain.Beacon{
		beacon("Sala A", 10, 10, 0),
		beacon("Escalera Norte", 40, 30, 0),
	}
	route := FindRoute(domain.Point{X: 0, Y: 0, Floor: 0}, domain.Point{X: 100, Y: 50, Floor: 1}, beacons)

	if len(route.Path) != 4 {
		t.Fatalf("len(path) = %d, want 4", len(route.Path))
	}
	want := []domain.Point{{X: 0, Y: 0, Floor: 0}, {X: 40, Y: 30, Floor: 0}, {X: 40, Y: 30, Floor: 1}, {X: 100, Y: 50, Floor: 1}}
	for i, w := range want {
		if route.Path[i].Point != w {
			t.Fatalf("path[%d] = %+v, want %+v", i, route.Path[i].Point, w)
		}
	}

	wantDist := 50 + math.Hypot(60, 20)
	if math.Abs(route.TotalDistance-wantDist) > 1e-9 {
		t.Fatalf("distance = %v, want %v", route.TotalDistance, wantDist)
	}
	if math.Abs(route.EstimatedTimeSeconds-wantDist/1.2) > 1e-9 {
		t.Fatalf("time = %v", route.EstimatedTimeSeconds)
	}
	if route.Path[0].Instruction != "Camina hacia Escalera Norte" || route.Path[1].Instruction != "Sube/Baja al piso 1" {
		t.Fatalf("instructions = %q, %q", route.Path[0].Instruction, route.Path[1].Instruction)
	}
}

func TestFindRouteSameFloor(t *testing.T) {
	t.Parallel()

	route := FindRoute(domain.Point{X: 0, Y: 0}, domain.Point{X: 3, Y: 4}, []*domain.Beacon{beacon("Ascensor", 1, 1, 0)})
	if len(route.Path) != 2 {
		t.Fatalf("len(path) = %d, want 2", len(route.Path))
	}
	if route.TotalDistance != 5 {
		t.Fatalf("distance = %v, want 5", route.TotalDistance)
	}
}

func TestFindRouteWithoutConnector(t *testing.T) {
	t.Parallel()

	beacons := []*domain.Beacon{
		beacon("Registro", 5, 5, 0),
		{Name: "Ascensor sin coordenadas"},
	}
	route := FindRoute(domain.Point{X: 0, Y: 0, Floor: 0}, domain.Point{X: 6, Y: 8, Floor: 2}, beacons)
	if len(route.Path) != 2 || route.TotalDistance != 10 {
		t.Fatalf("route = %+v, want direct line of 10", route)
	}
}

func TestFindRouteConnectorMatchIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	route := FindRoute(domain.Point{Floor: 1}, domain.Point{Floor: 0}, []*domain.Beacon{beacon("ASCENSOR Sur", 0, 0, 1)})
	if len(route.Path) != 4 {
		t.Fatalf("len(path) = %d, want 4", len(route.Path))
	}
	if route.TotalDistance != 0 {
		t.Fatalf("distance = %v, want 0", route.TotalDistance)
	}
}
