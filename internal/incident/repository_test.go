package incident

import (
	"context"
	"testing"
	"time"

	"rakshak-service/pkg/geo"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func newMongoCollection(t *testing.T) *mongo.Collection {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MongoDB integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := mongodb.Run(ctx, "mongo:7")
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("start mongo: %v", err)
	}

	uri, err := ctr.ConnectionString(ctx)
	if err != nil {
		t.Fatal(err)
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	return client.Database("rakshak_test").Collection("incidents")
}

func TestIncidentRepositoryMongo(t *testing.T) {
	coll := newMongoCollection(t)
	repo := NewIncidentRepository(coll)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	mk := func(title string, cat Category, st Status, pr Priority, lat, lon float64, offset time.Duration) *Incident {
		return &Incident{
			Title:       title,
			Description: "d",
			Category:    cat,
			Status:      st,
			Priority:    pr,
			Location:    Location{Latitude: lat, Longitude: lon, Address: "x"},
			Reporter:    Reporter{Name: ReporterUnknown},
			CreatedAt:   base.Add(offset),
			UpdatedAt:   base.Add(offset),
		}
	}

	seedData := []*Incident{
		mk("old fire", CategoryFire, StatusPending, PriorityNormal, 12.97, 77.59, 0),
		mk("new fire", CategoryFire, StatusResolved, PriorityCritical, 12.98, 77.60, time.Hour),
		mk("theft", CategoryTheft, StatusActive, PriorityHigh, 28.61, 77.20, 2*time.Hour),
	}
	for _, inc := range seedData {
		if err := repo.Create(ctx, inc); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if inc.ID.IsZero() {
			t.Fatal("id not set after insert")
		}
	}

	all, err := repo.Find(ctx, Query{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].Title != "theft" || all[2].Title != "old fire" {
		t.Fatalf("unexpected order %v", titles(all))
	}

	fires, err := repo.Find(ctx, Query{Category: CategoryFire, Status: StatusPending})
	if err != nil {
		t.Fatal(err)
	}
	if len(fires) != 1 || fires[0].Title != "old fire" {
		t.Fatalf("unexpected filter result %v", titles(fires))
	}

	box := geo.BoundingBox(12.975, 77.595, 10)
	near, err := repo.Find(ctx, Query{Box: &box})
	if err != nil {
		t.Fatal(err)
	}
	if len(near) != 2 {
		t.Fatalf("bounding box returned %v", titles(near))
	}

	missing, err := repo.FindByID(ctx, primitive.NewObjectID())
	if err != nil || missing != nil {
		t.Fatalf("FindByID missing: %v %v", missing, err)
	}

	resolved := StatusResolved
	notes := "handled"
	updated, err := repo.Update(ctx, seedData[0].ID, Patch{Status: &resolved, Notes: &notes, UpdatedAt: base.Add(3 * time.Hour)})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != StatusResolved || updated.ModeratorNotes == nil || *updated.ModeratorNotes != "handled" {
		t.Fatalf("unexpected update %+v", updated)
	}
	if updated.Category != CategoryFire {
		t.Error("unpatched fields must be preserved")
	}

	empty := ""
	cleared, err := repo.Update(ctx, seedData[0].ID, Patch{Notes: &empty, UpdatedAt: base.Add(4 * time.Hour)})
	if err != nil {
		t.Fatal(err)
	}
	if cleared.ModeratorNotes != nil {
		t.Errorf("notes not cleared: %v", *cleared.ModeratorNotes)
	}

	gone, err := repo.Update(ctx, primitive.NewObjectID(), Patch{UpdatedAt: base})
	if err != nil || gone != nil {
		t.Fatalf("Update missing: %v %v", gone, err)
	}

	groups, err := repo.CountGroups(ctx)
	if err != nil {
		t.Fatal(err)
	}
	stats := FoldStats(groups)
	if stats.Total != 3 || stats.Resolved != 2 || stats.Active != 1 || stats.Critical != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stats.ByCategory["fire"] != 2 || stats.ByCategory["theft"] != 1 {
		t.Errorf("byCategory = %v", stats.ByCategory)
	}

	if err := repo.Delete(ctx, seedData[2].ID); err != nil {
		t.Fatal(err)
	}
	if inc, _ := repo.FindByID(ctx, seedData[2].ID); inc != nil {
		t.Error("incident not deleted")
	}
}
