package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"ai-companion/config"
	"ai-companion/internal/db"
	"ai-companion/internal/handlers"
	"ai-companion/internal/repositories"
	"ai-companion/internal/routes"
	"ai-companion/internal/services"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func NewServer() *http.Server {
	logger := log.New(os.Stdout, "[SERVER] ", log.LstdFlags)

	// Chat pipeline
	gemini := services.NewGeminiClient(getGeminiConfig(logger), logger)
	chatService := services.NewChatService(
		services.NewClassifier(),
		services.NewRuleTable(),
		services.NewPromptBuilder(),
		gemini,
		logger,
	)

	// Storage backends, each swappable via env
	mongoClient := initializeMongo(logger)
	articleRepo := initializeArticleRepository(logger, mongoClient)
	visitRepo := initializeVisitRepository(logger, mongoClient)
	moodRepo := initializeMoodRepository(logger, mongoClient)

	h := &routes.Handlers{
		Health:  handlers.HealthCheckHandler,
		Home:    handlers.HomeHandler,
		Chat:    handlers.NewChatHandler(chatService, logger),
		LLM:     handlers.NewLLMHandler(gemini, logger),
		Article: handlers.NewArticleHandler(articleRepo, services.NewTagSuggester(), logger),
		Mood:    handlers.NewMoodHandler(moodRepo, logger),
		PHQ9:    handlers.NewPHQ9Handler(services.NewPHQ9Service(), logger),
		Visit:   handlers.NewVisitHandler(visitRepo, logger),
	}

	router := mux.NewRouter()
	routes.RegisterRoutes(router, h)

	// Add Swagger endpoints
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // The url pointing to API definition
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	return &http.Server{
		Addr:    addr,
		Handler: corsMiddleware(router),
	}
}

// getGeminiConfig reads the Gemini client configuration from environment variables
func getGeminiConfig(logger *log.Logger) services.GeminiConfig {
	cfg := services.GeminiConfig{
		APIKey: os.Getenv("GEMINI_API_KEY"),
	}
	if cfg.APIKey == "" {
		logger.Println("⚠️  GEMINI_API_KEY not set - chat will serve degraded responses")
	}

	if baseURL := os.Getenv("GEMINI_BASE_URL"); baseURL != "" {
		cfg.BaseURL = baseURL
	}

	if models := os.Getenv("GEMINI_MODELS"); models != "" {
		for _, m := range strings.Split(models, ",") {
			if m = strings.TrimSpace(m); m != "" {
				cfg.Models = append(cfg.Models, m)
			}
		}
	}

	if timeoutStr := os.Getenv("GEMINI_TIMEOUT_SECONDS"); timeoutStr != "" {
		if seconds, err := strconv.Atoi(timeoutStr); err == nil && seconds > 0 {
			cfg.AttemptTimeout = time.Duration(seconds) * time.Second
		}
	}

	return cfg
}

// initializeMongo connects to MongoDB if any store asks for it. Returns nil
// when Mongo is not requested or unreachable; callers fall back.
func initializeMongo(logger *log.Logger) *db.MongoClient {
	wantsMongo := os.Getenv("ARTICLE_STORE") == "mongo" ||
		os.Getenv("VISIT_STORE") == "mongo" ||
		os.Getenv("MOOD_STORE") == "mongo"
	if !wantsMongo {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoConfig := getMongoConfig()
	logger.Printf("Connecting to MongoDB: %s (database: %s)", mongoConfig.URI, mongoConfig.Database)

	client, err := db.NewMongoClient(ctx, mongoConfig)
	if err == nil {
		err = client.Ping(ctx)
	}
	if err != nil {
		logger.Printf("❌ MongoDB connection failed: %v", err)
		logger.Println("   Stores configured for mongo will fall back to local backends")
		logger.Println("   Hint: Ensure MongoDB is running (docker run -d -p 27017:27017 mongo:7)")
		return nil
	}

	if err := client.EnsureIndexes(ctx); err != nil {
		logger.Printf("⚠️  Failed to ensure MongoDB indexes: %v", err)
	}

	logger.Println("✅ MongoDB connected successfully")
	return client
}

// initializeArticleRepository selects the article store from ARTICLE_STORE:
// "mongo", "memory", or "file" (default).
func initializeArticleRepository(logger *log.Logger, mongoClient *db.MongoClient) repositories.ArticleRepository {
	switch os.Getenv("ARTICLE_STORE") {
	case "mongo":
		if mongoClient != nil {
			logger.Println("✅ Article store: MongoDB")
			return repositories.NewMongoArticleRepository(mongoClient.Database())
		}
		logger.Println("⚠️  Article store falling back to file - MongoDB not available")
	case "memory":
		seed, err := config.LoadArticles(getEnv("ARTICLE_SEED_FILE", "config/seed_articles.json"))
		if err != nil {
			logger.Printf("⚠️  Could not load seed articles: %v", err)
			seed = nil
		}
		logger.Printf("✅ Article store: in-memory (%d seed articles)", len(seed))
		return repositories.NewMemoryArticleRepository(seed)
	}

	path := getEnv("ARTICLE_FILE", "data/articles.json")
	logger.Printf("✅ Article store: file (%s)", path)
	return repositories.NewFileArticleRepository(path)
}

// initializeVisitRepository selects the visit counter store from VISIT_STORE:
// "redis", "mongo", or "file" (default).
func initializeVisitRepository(logger *log.Logger, mongoClient *db.MongoClient) repositories.VisitRepository {
	switch os.Getenv("VISIT_STORE") {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		redisConfig := getRedisConfig()
		logger.Printf("Connecting to Redis: %s:%d (DB: %d)", redisConfig.Host, redisConfig.Port, redisConfig.DB)

		redisClient, err := db.NewRedisClient(redisConfig)
		if err == nil {
			err = redisClient.Ping(ctx)
		}
		if err != nil {
			logger.Printf("❌ Redis connection failed: %v", err)
			logger.Println("   Visit counter falling back to file store")
			logger.Println("   Hint: Ensure Redis is running (docker run -d -p 6379:6379 redis:7-alpine)")
			break
		}

		repo, err := repositories.NewRedisVisitRepository(ctx, redisClient.GetClient())
		if err != nil {
			logger.Printf("❌ Failed to seed Redis visit counter: %v", err)
			break
		}
		logger.Println("✅ Visit store: Redis")
		return repo
	case "mongo":
		if mongoClient != nil {
			logger.Println("✅ Visit store: MongoDB")
			return repositories.NewMongoVisitRepository(mongoClient.Database())
		}
		logger.Println("⚠️  Visit store falling back to file - MongoDB not available")
	}

	path := getEnv("VISIT_FILE", "data/visits.json")
	logger.Printf("✅ Visit store: file (%s)", path)
	return repositories.NewFileVisitRepository(path)
}

// initializeMoodRepository selects the mood store from MOOD_STORE:
// "mongo" or "memory" (default).
func initializeMoodRepository(logger *log.Logger, mongoClient *db.MongoClient) repositories.MoodRepository {
	if os.Getenv("MOOD_STORE") == "mongo" {
		if mongoClient != nil {
			logger.Println("✅ Mood store: MongoDB")
			return repositories.NewMongoMoodRepository(mongoClient.Database())
		}
		logger.Println("⚠️  Mood store falling back to memory - MongoDB not available")
	}

	logger.Println("✅ Mood store: in-memory")
	return repositories.NewMemoryMoodRepository()
}

// getRedisConfig reads Redis configuration from environment variables
func getRedisConfig() db.RedisConfig {
	config := db.DefaultRedisConfig()

	if host := os.Getenv("REDIS_HOST"); host != "" {
		config.Host = host
	}

	if portStr := os.Getenv("REDIS_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			config.Port = port
		}
	}

	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		config.Password = password
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if dbNum, err := strconv.Atoi(dbStr); err == nil {
			config.DB = dbNum
		}
	}

	if poolSizeStr := os.Getenv("REDIS_POOL_SIZE"); poolSizeStr != "" {
		if poolSize, err := strconv.Atoi(poolSizeStr); err == nil {
			config.PoolSize = poolSize
		}
	}

	return config
}

// getMongoConfig reads MongoDB configuration from environment variables
func getMongoConfig() db.MongoConfig {
	config := db.DefaultMongoConfig()

	if uri := os.Getenv("MONGO_URI"); uri != "" {
		config.URI = uri
	}

	if database := os.Getenv("MONGO_DATABASE"); database != "" {
		config.Database = database
	}

	return config
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
