package services_test

import (
	"testing"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopfront/app/repositories"
	"github.com/shashiranjanraj/shopfront/app/services"
	"github.com/shashiranjanraj/shopfront/internal/testkit"
	"github.com/shashiranjanraj/shopfront/pkg/cache"
	"github.com/shashiranjanraj/shopfront/pkg/event"
	"github.com/shashiranjanraj/shopfront/pkg/storage"
	"github.com/shashiranjanraj/shopfront/pkg/workerpool"
)

type env struct {
	db       *gorm.DB
	store    *cache.MemoryStore
	bus      *event.Bus
	disk     *storage.LocalDisk
	auth     *services.AuthService
	users    *services.UserService
	catalog  *services.CatalogService
	photos   *services.PhotoService
	feedback *services.FeedbackService
	carts    *services.CartService
}

func setup(t *testing.T) env {
	t.Helper()

	db := testkit.NewDB(t)
	store := cache.NewMemory()
	bus := event.New()

	disk, err := storage.NewLocal(t.TempDir(), "http://cdn.test/storage")
	if err != nil {
		t.Fatal(err)
	}
	disks := storage.NewManager("local")
	disks.Register(disk)

	pool := workerpool.New(2)
	t.Cleanup(pool.Shutdown)

	userRepo := repositories.NewUserRepository(db)
	productRepo := repositories.NewProductRepository(db)
	photos := services.NewPhotoService(productRepo, disks, pool, store)

	return env{
		db:       db,
		store:    store,
		bus:      bus,
		disk:     disk,
		auth:     services.NewAuthService(userRepo, store),
		users:    services.NewUserService(userRepo),
		catalog:  services.NewCatalogService(repositories.NewCategoryRepository(db), productRepo, store, photos),
		photos:   photos,
		feedback: services.NewFeedbackService(productRepo, repositories.NewRatingRepository(db), repositories.NewReviewRepository(db), store),
		carts:    services.NewCartService(repositories.NewCartRepository(db), productRepo, bus),
	}
}

func actor(id uint, role string) services.Actor {
	return services.Actor{UserID: id, Role: role}
}
