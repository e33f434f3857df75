package main

import (
	"log"

	"gridwalk/internal/model"
	"gridwalk/internal/postgres"
)

// saveIntersectionsToDB reseeds the intersections table from the extract
func saveIntersectionsToDB(dbURL string, intersections []*model.Intersection) {
	db, err := postgres.Init(dbURL)
	if err != nil {
		log.Printf("Failed to connect to PostgreSQL: %v", err)
		return
	}

	log.Println("Clearing existing intersections from database...")
	if result := db.Exec("DELETE FROM intersections"); result.Error != nil {
		log.Printf("Failed to clear intersections: %v", result.Error)
		return
	}

	rows := make([]model.IntersectionPG, len(intersections))
	for i, node := range intersections {
		rows[i] = *node.ToPG()
	}

	// Insert in batches of 100 to avoid overwhelming the database
	batchSize := 100
	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}

		batch := rows[i:end]
		result := db.Create(&batch)
		if result.Error != nil {
			log.Printf("Error saving batch %d-%d: %v", i, end, result.Error)
		} else {
			log.Printf("Saved batch %d-%d successfully", i, end)
		}
	}

	log.Printf("Persisted %d intersections to PostgreSQL", len(rows))
}
