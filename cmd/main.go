package main

import (
	"answer-grader/config"
	"answer-grader/internal/services/cache"
	"context"
	"fmt"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
)

func connectMilvusWithRetry(address string, attempts int, perAttemptTimeout time.Duration, delay time.Duration) (client.Client, error) {
	var lastErr error
	for i := 0; i < attempts; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), perAttemptTimeout)
		cli, err := client.NewClient(ctx, client.Config{Address: address})
		cancel()
		if err == nil {
			return cli, nil
		}
		lastErr = err
		time.Sleep(delay)
	}
	return nil, lastErr
}

// Maintenance entrypoint: drops expired cache rows and, when the variant
// index is enabled, waits for Milvus to come up.
func main() {
	if err := config.Init("config.yaml"); err != nil {
		fmt.Println("config error:", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	purged, err := cache.PurgeExpired(ctx)
	if err != nil {
		fmt.Println("cache purge error:", err)
	} else {
		fmt.Println("purged expired cache rows:", purged)
	}

	if config.Cfg.Milvus.Enabled {
		// Milvus may take tens of seconds to boot
		cli, err := connectMilvusWithRetry(config.Cfg.Milvus.Address, 20, 5*time.Second, 2*time.Second)
		if err != nil {
			fmt.Println("Milvus connect error:", err)
			return
		}
		defer cli.Close()
		fmt.Println("Milvus connected!")
	}
}
