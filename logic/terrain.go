package logic

import (
	"fmt"
	"math/rand"
)

// Terrain is one generated obstacle layout plus shop placement.
// Replaced wholesale on rotation.
type Terrain struct {
	Obstacles []Obstacle `json:"obstacles"`
	Shops     []Shop     `json:"shops"`
}

// GenerateTerrain produces a random, spacing-constrained layout.
// Placement retries are unbounded; the spacing constraints are generous
// relative to the arena size, so the loops terminate in practice.
func GenerateTerrain(cfg *GameConfig) *Terrain {
	obstacles := generateObstacles(cfg)
	return &Terrain{
		Obstacles: obstacles,
		Shops:     generateShops(cfg, obstacles),
	}
}

func generateObstacles(cfg *GameConfig) []Obstacle {
	a := cfg.Arena
	obstacles := make([]Obstacle, 0, a.ObstacleCount)

	for i := 0; i < a.ObstacleCount; i++ {
		for {
			width := a.ObstacleMinWidth + rand.Float64()*(a.ObstacleMaxWidth-a.ObstacleMinWidth)
			height := a.ObstacleMinHeight + rand.Float64()*(a.ObstacleMaxHeight-a.ObstacleMinHeight)

			o := Obstacle{
				X:      a.ObstacleMargin + rand.Float64()*(a.Width-width-a.ObstacleMargin*2),
				Y:      a.ObstacleMargin + rand.Float64()*(a.Height-height-a.ObstacleMargin*2),
				Width:  width,
				Height: height,
			}

			tooClose := false
			for _, other := range obstacles {
				if Dist(o.Center(), other.Center()) < a.ObstacleSpacing {
					tooClose = true
					break
				}
			}
			if !tooClose {
				obstacles = append(obstacles, o)
				break
			}
		}
	}
	return obstacles
}

func generateShops(cfg *GameConfig, obstacles []Obstacle) []Shop {
	a := cfg.Arena
	shops := make([]Shop, 0, a.ShopCount)

	for i := 0; i < a.ShopCount; i++ {
		for {
			pos := Vector2{
				X: a.ShopMargin + rand.Float64()*(a.Width-a.ShopMargin*2),
				Y: a.ShopMargin + rand.Float64()*(a.Height-a.ShopMargin*2),
			}

			tooClose := false
			for _, o := range obstacles {
				if Dist(pos, o.Center()) < a.ShopClearance {
					tooClose = true
					break
				}
			}
			if !tooClose {
				shops = append(shops, Shop{
					ID:     fmt.Sprintf("shop%d", i+1),
					X:      pos.X,
					Y:      pos.Y,
					Radius: a.ShopRadius,
				})
				break
			}
		}
	}
	return shops
}
