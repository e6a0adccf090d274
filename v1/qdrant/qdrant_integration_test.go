package qdrant

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/agentcloud/vectordb-proxy/v1/vectordb"
)

// QdrantContainer represents a Qdrant container for testing
type QdrantContainer struct {
	testcontainers.Container
	Host string
	Port string
}

// setupQdrantContainer sets up a Qdrant container for testing
func setupQdrantContainer(ctx context.Context) (*QdrantContainer, error) {
	// Get a random free port
	port, err := getFreePort()
	if err != nil {
		return nil, fmt.Errorf("could not get free port: %w", err)
	}

	portStr := fmt.Sprintf("%d", port)
	portBindings := nat.PortMap{
		"6334/tcp": []nat.PortBinding{{HostPort: portStr}},
	}

	// Define container request
	req := testcontainers.ContainerRequest{
		Image: "qdrant/qdrant:v1.15.5",
		Env: map[string]string{
			"QDRANT__SERVICE__GRPC_PORT": "6334",
		},
		ExposedPorts: []string{"6334/tcp"},
		HostConfigModifier: func(cfg *container.HostConfig) {
			cfg.PortBindings = portBindings
		},
		WaitingFor: wait.ForListeningPort("6334/tcp").WithStartupTimeout(60 * time.Second),
	}

	// Start container
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start qdrant container: %w", err)
	}

	// Get host
	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get host: %w", err)
	}

	// Get mapped port
	mappedPort, err := container.MappedPort(ctx, "6334")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get mapped port: %w", err)
	}

	portStr = mappedPort.Port()

	// Wait for Qdrant to be fully ready
	fmt.Printf("Waiting for Qdrant to be ready on %s:%s...\n", host, portStr)
	err = waitForQdrantReady(host, portStr, 30*time.Second)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("qdrant container not ready: %w", err)
	}
	fmt.Printf("Qdrant is ready on %s:%s\n", host, portStr)

	return &QdrantContainer{
		Container: container,
		Host:      host,
		Port:      portStr,
	}, nil
}

// getFreePort gets a free port from the OS
func getFreePort() (int, error) {
	addr, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	defer func(addr net.Listener) {
		err := addr.Close()
		if err != nil {
			fmt.Printf("Failed to close listener: %v", err)
		}
	}(addr)

	return addr.Addr().(*net.TCPAddr).Port, nil
}

// waitForQdrantReady attempts to connect to Qdrant until it's ready or times out
func waitForQdrantReady(host, port string, timeout time.Duration) error {
	startTime := time.Now()
	for {
		if time.Since(startTime) > timeout {
			return fmt.Errorf("timed out waiting for Qdrant to be ready after %s", timeout)
		}

		// Try to establish a TCP connection
		conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, port), 2*time.Second)
		if err == nil {
			_ = conn.Close()
			// Additional wait to ensure the service is fully ready
			time.Sleep(2 * time.Second)
			return nil
		}

		time.Sleep(500 * time.Millisecond)
	}
}

// startQdrant starts a container and returns a config pointing at it.
func startQdrant(t *testing.T) *Config {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	containerInstance, err := setupQdrantContainer(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := containerInstance.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate container: %s", err)
		}
	})
	t.Logf("Using Qdrant on %s:%s", containerInstance.Host, containerInstance.Port)

	portNum, err := strconv.Atoi(containerInstance.Port)
	require.NoError(t, err)

	return FromEndpoint(containerInstance.Host).
		WithPort(portNum).
		WithCompatibilityCheck(false).
		WithConnectTimeout(10 * time.Second)
}

// TestQdrantWithFXModule runs the contract end to end through the FX module.
func TestQdrantWithFXModule(t *testing.T) {
	cfg := startQdrant(t)
	ctx := context.Background()

	var db vectordb.VectorDatabase
	app := fxtest.New(t,
		fx.Provide(func() *Config { return cfg }),
		FXModule,
		fx.Populate(&db),
	)
	app.RequireStart()
	defer app.RequireStop()

	const collection = "test_docs"
	req := vectordb.NewSearchRequest(vectordb.SearchTypeCollection, collection)

	t.Run("CreateCollectionIsIdempotent", func(t *testing.T) {
		create := vectordb.CollectionCreate{CollectionName: collection, Size: 4, Distance: vectordb.DistanceCosine}
		for i := 0; i < 2; i++ {
			status, err := db.CreateCollection(ctx, create)
			require.NoError(t, err)
			assert.True(t, status.IsOk())
		}

		create.Size = 8
		_, err := db.CreateCollection(ctx, create)
		assert.True(t, vectordb.IsNotFoundError(err))
	})

	t.Run("ExistsAndList", func(t *testing.T) {
		res, err := db.CheckCollectionExists(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.Status.IsOk())

		missing, err := db.CheckCollectionExists(ctx, vectordb.NewSearchRequest(vectordb.SearchTypeCollection, "nope"))
		require.NoError(t, err)
		assert.Equal(t, vectordb.StatusCodeNotFound, missing.Status.Code)

		names, err := db.GetListOfCollections(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, collection)
	})

	t.Run("InsertSearchScroll", func(t *testing.T) {
		points := make([]vectordb.Point, 25)
		for i := range points {
			points[i] = vectordb.NewPoint(
				fmt.Sprintf("doc-%02d", i),
				[]float32{float32(i + 1), 1, 0, 0},
				map[string]string{"text": fmt.Sprintf("chunk %d", i), "parity": []string{"even", "odd"}[i%2]},
			)
		}
		status, err := db.BulkInsertPoints(ctx, req, points)
		require.NoError(t, err)
		require.True(t, status.IsOk())

		single := vectordb.NewPoint("00000000-0000-0000-0000-000000000001", []float32{0, 0, 1, 0}, nil)
		status, err = db.InsertPoint(ctx, req, single)
		require.NoError(t, err)
		require.True(t, status.IsOk())

		search := vectordb.NewSearchRequest(vectordb.SearchTypeSimilarity, collection)
		search.Vector = []float32{0, 0, 1, 0}
		search.TopK = vectordb.Ptr(uint32(3))
		search.SearchResponseParams = &vectordb.SearchResponseParams{IncludeVectors: vectordb.Ptr(true)}
		results, err := db.SimilaritySearch(ctx, search)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "00000000-0000-0000-0000-000000000001", results[0].ID)
		assert.Len(t, results[0].Vector, 4)

		search.Vector = []float32{1, 1, 0, 0}
		search.Filters = &vectordb.FilterConditions{Must: []map[string]string{{"parity": "odd"}}}
		results, err = db.SimilaritySearch(ctx, search)
		require.NoError(t, err)
		for _, r := range results {
			assert.Equal(t, "odd", r.Payload["parity"])
			assert.Contains(t, r.ID, "doc-")
		}

		scroll := req
		scroll.SearchResponseParams = &vectordb.SearchResponseParams{Limit: vectordb.Ptr(uint32(10))}
		page, err := db.ScrollPoints(ctx, scroll)
		require.NoError(t, err)
		assert.Len(t, page, 10)

		scroll.SearchResponseParams.GetAllPages = vectordb.Ptr(true)
		all, err := db.ScrollPoints(ctx, scroll)
		require.NoError(t, err)
		assert.Len(t, all, 26)
	})

	t.Run("InfoAndStorage", func(t *testing.T) {
		meta, err := db.GetCollectionInfo(ctx, req)
		require.NoError(t, err)
		require.NotNil(t, meta.CollectionVectorCount)
		assert.Equal(t, uint64(26), *meta.CollectionVectorCount)
		assert.Equal(t, vectordb.DistanceCosine, *meta.Metric)
		assert.Equal(t, uint64(4), *meta.Dimensions)

		size, err := db.GetStorageSize(ctx, req, 4)
		require.NoError(t, err)
		assert.InDelta(t, 26*4*4.0, *size.Size, 0.001)
	})

	t.Run("DeleteCollection", func(t *testing.T) {
		status, err := db.DeleteCollection(ctx, req)
		require.NoError(t, err)
		assert.True(t, status.IsOk())

		meta, err := db.GetCollectionInfo(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, vectordb.StatusCodeNotFound, meta.Status.Code)
	})
}

// TestQdrantErrorHandling covers connection and request failures.
func TestQdrantErrorHandling(t *testing.T) {
	cfg := startQdrant(t)
	ctx := context.Background()

	client, err := NewQdrantClient(QdrantParams{Config: cfg})
	require.NoError(t, err)
	db := NewAdapter(client.API(), WithCloser(client))
	defer db.Close()

	t.Run("InvalidEndpoint", func(t *testing.T) {
		_, err := NewQdrantClient(QdrantParams{Config: FromEndpoint("invalid-host").
			WithPort(9999).
			WithCompatibilityCheck(false).
			WithConnectTimeout(2 * time.Second)})
		assert.Error(t, err)
	})

	t.Run("SearchOnNonExistentCollection", func(t *testing.T) {
		search := vectordb.NewSearchRequest(vectordb.SearchTypeSimilarity, "non_existent_collection")
		search.Vector = generateVector(4)
		search.TopK = vectordb.Ptr(uint32(5))
		search.SearchResponseParams = &vectordb.SearchResponseParams{}
		_, err := db.SimilaritySearch(ctx, search)
		assert.True(t, vectordb.IsBackendError(err))
	})

	t.Run("UnknownDistance", func(t *testing.T) {
		_, err := db.CreateCollection(ctx, vectordb.CollectionCreate{CollectionName: "bad", Size: 4})
		assert.Equal(t, vectordb.KindOther, vectordb.KindOf(err))
	})
}

// generateVector returns a deterministic vector of the given size.
func generateVector(size int) []float32 {
	vector := make([]float32, size)
	for i := range vector {
		vector[i] = float32(i%100) / 100.0
	}
	return vector
}
