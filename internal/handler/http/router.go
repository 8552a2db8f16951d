package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/freshmarket/freshmarket/internal/auth"
	"github.com/freshmarket/freshmarket/internal/domain"
	"github.com/freshmarket/freshmarket/internal/service"
	"github.com/freshmarket/freshmarket/pkg/health"
	"github.com/freshmarket/freshmarket/pkg/middleware"
)

// Services bundles the service layer for route registration.
type Services struct {
	Products      *service.ProductService
	Carts         *service.CartService
	Users         *service.UserService
	Blogs         *service.BlogService
	Polls         *service.PollService
	Verifications *service.VerificationService
	Gardens       *service.GardenService
	Reviews       *service.ReviewService
	Banners       *service.BannerService
}

// RouterConfig holds the router's non-service dependencies.
type RouterConfig struct {
	JWTManager    *auth.JWTManager
	HealthHandler *health.Handler
	Logger        *slog.Logger
	CORS          CORSConfig
	LoginRPS      int
	LoginBurst    int
}

// NewRouter creates a chi router with all marketplace routes registered.
func NewRouter(svcs Services, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	logger := cfg.Logger

	// Global middleware
	r.Use(CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("freshmarket"))

	// Health check endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Token validator that bridges to the internal JWTManager.
	tokenValidator := func(token string) (*middleware.Claims, error) {
		claims, err := cfg.JWTManager.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		}, nil
	}
	authMW := middleware.Auth(tokenValidator)

	// Auth endpoints (public; login and register are rate limited)
	authHandler := NewAuthHandler(svcs.Users, logger)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.RateLimit(cfg.LoginRPS, cfg.LoginBurst, logger))

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.RefreshToken)
		r.Post("/logout", authHandler.Logout)
	})

	// Account endpoints (auth required)
	verificationHandler := NewVerificationHandler(svcs.Verifications, logger)
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(authMW)

		r.Get("/me", authHandler.GetProfile)
		r.Get("/me/verification", verificationHandler.GetMine)
	})

	// Identity verification (auth required)
	r.Route("/api/v1/verifications", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(authMW)

		r.Post("/", verificationHandler.Submit)
		r.Get("/{id}", verificationHandler.Get)
		r.Put("/{id}", verificationHandler.Resubmit)
	})

	// Product catalog: reads are public, writes need a seller account.
	productHandler := NewProductHandler(svcs.Products, logger)
	reviewHandler := NewReviewHandler(svcs.Reviews, logger)
	gardenHandler := NewGardenHandler(svcs.Gardens, logger)

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", productHandler.ListProducts)
		r.Get("/{id}", productHandler.GetProduct)
		r.Get("/{productId}/reviews", reviewHandler.ListReviews)
		r.Get("/{productId}/farmers", gardenHandler.ListFarmers)

		r.Group(func(r chi.Router) {
			r.Use(authMW)
			r.Post("/{productId}/reviews", reviewHandler.CreateReview)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMW)
			r.Use(middleware.RequireRole(domain.RoleSeller, domain.RoleAdmin))

			r.Post("/", productHandler.CreateProduct)
			r.Put("/{id}", productHandler.UpdateProduct)
			r.Delete("/{id}", productHandler.DeleteProduct)
		})
	})

	r.Route("/api/v1/reviews", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(authMW)
		r.Use(middleware.RequireRole(domain.RoleAdmin))

		r.Delete("/{id}", reviewHandler.DeleteReview)
	})

	// Cart: works for authenticated users and anonymous sessions alike.
	cartHandler := NewCartHandler(svcs.Carts, logger)
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(OptionalAuth(authMW))

		r.Get("/", cartHandler.GetCart)
		r.Delete("/", cartHandler.ClearCart)
		r.Post("/items", cartHandler.AddItem)
		r.Put("/items/{productId}", cartHandler.UpdateItem)
		r.Delete("/items/{productId}", cartHandler.RemoveItem)
		r.Post("/discount", cartHandler.ApplyDiscount)
		r.Post("/checkout", cartHandler.Checkout)
	})

	// Blog: reads are public, interactions need an account.
	blogHandler := NewBlogHandler(svcs.Blogs, logger)
	r.Route("/api/v1/blogs", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", blogHandler.ListBlogs)
		r.Get("/{idOrSlug}", blogHandler.GetBlog)
		r.Get("/{id}/comments", blogHandler.ListComments)

		r.Group(func(r chi.Router) {
			r.Use(authMW)

			r.Post("/", blogHandler.CreateBlog)
			r.Put("/{id}", blogHandler.UpdateBlog)
			r.Delete("/{id}", blogHandler.DeleteBlog)
			r.Post("/{id}/comments", blogHandler.AddComment)
			r.Post("/{id}/likes", blogHandler.LikeBlog)
			r.Post("/{id}/shares", blogHandler.ShareBlog)
		})
	})

	r.Route("/api/v1/comments", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(authMW)

		r.Put("/{id}", blogHandler.UpdateComment)
		r.Delete("/{id}", blogHandler.DeleteComment)
	})

	// Polls: reads are public, creating and voting need an account.
	pollHandler := NewPollHandler(svcs.Polls, logger)
	r.Route("/api/v1/polls", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", pollHandler.ListPolls)
		r.Get("/{id}", pollHandler.GetPoll)
		r.Get("/{id}/tally", pollHandler.Tally)

		r.Group(func(r chi.Router) {
			r.Use(authMW)

			r.Post("/", pollHandler.CreatePoll)
			r.Delete("/{id}", pollHandler.DeletePoll)
			r.Post("/{id}/votes", pollHandler.CastVote)
		})
	})

	// Gardens: reads are public, writes need a seller account.
	r.Route("/api/v1/gardens", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", gardenHandler.ListGardens)
		r.Get("/{id}", gardenHandler.GetGarden)

		r.Group(func(r chi.Router) {
			r.Use(authMW)
			r.Use(middleware.RequireRole(domain.RoleSeller, domain.RoleAdmin))

			r.Post("/", gardenHandler.CreateGarden)
			r.Put("/{id}", gardenHandler.UpdateGarden)
			r.Delete("/{id}", gardenHandler.DeleteGarden)
		})
	})

	r.Route("/api/v1/farmers", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(authMW)
		r.Use(middleware.RequireRole(domain.RoleSeller, domain.RoleAdmin))

		r.Post("/", gardenHandler.CreateFarmer)
		r.Put("/{id}", gardenHandler.UpdateFarmer)
		r.Delete("/{id}", gardenHandler.DeleteFarmer)
	})

	// Banners and categories: reads are public, writes are admin-only.
	bannerHandler := NewBannerHandler(svcs.Banners, logger)
	r.Route("/api/v1/banners", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", bannerHandler.ListLiveBanners)

		r.Group(func(r chi.Router) {
			r.Use(authMW)
			r.Use(middleware.RequireRole(domain.RoleAdmin))

			r.Post("/", bannerHandler.CreateBanner)
			r.Put("/{id}", bannerHandler.UpdateBanner)
			r.Delete("/{id}", bannerHandler.DeleteBanner)
		})
	})

	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", bannerHandler.ListCategories)

		r.Group(func(r chi.Router) {
			r.Use(authMW)
			r.Use(middleware.RequireRole(domain.RoleAdmin))

			r.Post("/", bannerHandler.CreateCategory)
			r.Delete("/{id}", bannerHandler.DeleteCategory)
		})
	})

	return r
}
