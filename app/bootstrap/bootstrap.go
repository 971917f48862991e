package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/aihub/rag-go/internal/config"
	"github.com/aihub/rag-go/internal/database"
	"github.com/aihub/rag-go/internal/logger"
	"github.com/aihub/rag-go/internal/rag"
	"github.com/aihub/rag-go/internal/repository"
	"github.com/aihub/rag-go/internal/services"
	"github.com/aihub/rag-go/internal/storage"
)

// App encapsulates lifecycle resources that need to be cleaned up on shutdown.
type App struct {
	cleanupTasks []func() error
	ragService   *services.RAGService
}

// RAGService returns the shared RAG service instance.
func (a *App) RAGService() *services.RAGService {
	return a.ragService
}

// Global app instance for controllers to access
var globalApp *App

// GetApp returns the global app instance
func GetApp() *App {
	return globalApp
}

// SetGlobalApp sets the global app instance
func SetGlobalApp(app *App) {
	globalApp = app
}

// Init bootstraps configuration, logger and the service dependencies required
// by the Beego application. All collaborators are constructed once here and
// reused across requests.
func Init() (*App, error) {
	// Load environment variables from .env if present (non-fatal if missing).
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	if err := logger.InitLogger(); err != nil {
		return nil, err
	}

	if err := config.LoadConfig(); err != nil {
		return nil, err
	}
	cfg := config.AppConfig

	app := &App{}
	ctx := context.Background()

	// 向量化模型：入库和查询必须共用同一实例
	embedder := rag.NewOpenAIEmbedder(
		cfg.RAG.Embedding.APIKey,
		cfg.RAG.Embedding.BaseURL,
		cfg.RAG.Embedding.Model,
		cfg.RAG.Embedding.Dimensions,
	)
	if !embedder.Ready() {
		logger.Warn("embedding provider not configured, ingestion and query will fail")
	}

	// 向量存储
	var store rag.VectorStore
	switch cfg.RAG.VectorStore.Provider {
	case "milvus":
		milvusStore, err := rag.NewMilvusVectorStore(ctx, rag.MilvusOptions{
			Address:    cfg.RAG.VectorStore.Milvus.Address,
			Username:   cfg.RAG.VectorStore.Milvus.Username,
			Password:   cfg.RAG.VectorStore.Milvus.Password,
			Collection: cfg.RAG.VectorStore.Milvus.Collection,
			Database:   cfg.RAG.VectorStore.Milvus.Database,
			VectorSize: cfg.RAG.Embedding.Dimensions,
			UseTLS:     cfg.RAG.VectorStore.Milvus.TLS,
		})
		if err != nil {
			return nil, err
		}
		store = milvusStore
		logger.Info("Milvus vector store initialized",
			zap.String("address", cfg.RAG.VectorStore.Milvus.Address),
			zap.String("collection", cfg.RAG.VectorStore.Milvus.Collection))
	default:
		store = rag.NewMemoryVectorStore(cfg.RAG.Embedding.Dimensions)
		logger.Info("memory vector store initialized")
	}

	// 原始文件存储
	var fileStore storage.Store
	if cfg.RAG.Storage.Provider == "minio" || cfg.RAG.Storage.Provider == "s3" {
		minioStore, err := storage.NewMinIOStore(ctx, cfg.RAG.Storage, cfg.RAG.DocumentsDir)
		if err != nil {
			logger.Warn("Failed to initialize MinIO, falling back to local storage", zap.Error(err))
		} else {
			fileStore = minioStore
			logger.Info("MinIO storage initialized", zap.String("bucket", cfg.RAG.Storage.Bucket))
		}
	}
	if fileStore == nil {
		localStore, err := storage.NewLocalStore(cfg.RAG.DocumentsDir)
		if err != nil {
			return nil, err
		}
		fileStore = localStore
	}

	// 文档登记数据库（可选）
	var documents *repository.DocumentRepo
	if cfg.Database.Enabled {
		db, err := database.InitDB()
		if err != nil {
			logger.Warn("Failed to initialize database, document registry disabled", zap.Error(err))
		} else {
			documents = repository.NewDocumentRepo(db)
			app.cleanupTasks = append(app.cleanupTasks, database.CloseDB)
		}
	}

	// 应答缓存（可选）
	var cache *services.AnswerCache
	if cfg.Redis.Enabled {
		client, err := database.InitRedis()
		if err != nil {
			logger.Warn("Failed to initialize Redis, answer cache disabled", zap.Error(err))
		} else {
			cache = services.NewAnswerCache(client, time.Duration(cfg.Redis.TTL)*time.Second)
			app.cleanupTasks = append(app.cleanupTasks, database.CloseRedis)
		}
	}

	chunker := rag.NewChunker(cfg.RAG.ChunkSize)
	converter := rag.NewConverter(chunker, embedder)
	generator := rag.NewGenerator(cfg.RAG.LLM.APIKey, cfg.RAG.LLM.BaseURL, cfg.RAG.LLM.Model)

	app.ragService = services.NewRAGService(services.RAGServiceOptions{
		Converter:       converter,
		Embedder:        embedder,
		Store:           store,
		Generator:       generator,
		FileStore:       fileStore,
		Documents:       documents,
		Cache:           cache,
		TopK:            cfg.RAG.TopK,
		MaxContextChars: cfg.RAG.MaxContextChars,
	})

	SetGlobalApp(app)
	return app, nil
}

// Shutdown releases resources acquired during Init.
func (a *App) Shutdown() {
	for i := len(a.cleanupTasks) - 1; i >= 0; i-- {
		if err := a.cleanupTasks[i](); err != nil {
			logger.Error("cleanup task failed", zap.Error(err))
		}
	}
	logger.Sync()
}
