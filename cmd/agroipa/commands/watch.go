package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ppmalta/AgroIPA/pkg/agro"
)

// NewWatchCommand creates the watch command, a polling operations dashboard.
func NewWatchCommand() *cobra.Command {
	var (
		interval  time.Duration
		cacheType string
		redisAddr string
		natsURL   string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch live operations",
		Long: `Poll the API and redraw the operations overview: delivery points,
routes in progress, and active agents. Reads go through the query store, so
repeated polls inside a staleness window are served from cache.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			cacheConfig := agro.DefaultCacheConfig()
			cacheConfig.Type = agro.CacheType(cacheType)
			cacheConfig.Redis = &agro.RedisCacheConfig{Addr: redisAddr}
			cacheConfig.NATS = &agro.NATSKVConfig{URL: natsURL}

			cache, err := agro.NewCacheFromConfig(cacheConfig)
			if err != nil {
				return fmt.Errorf("creating cache: %w", err)
			}

			store := agro.NewQueryStore(cache)
			defer store.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				data, err := agro.FetchMapData(ctx, store, client)
				if err != nil {
					return fmt.Errorf("fetching map data: %w", err)
				}

				renderWatch(data, store.Stats())

				select {
				case <-ctx.Done():
					fmt.Println()

					return nil
				case <-ticker.C:
				}
			}
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 10*time.Second, "poll interval")
	cmd.Flags().StringVar(&cacheType, "cache", string(agro.CacheTypeMemory), "cache backend (memory, redis, nats, none)")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "localhost:6379", "redis address for --cache redis")
	cmd.Flags().StringVar(&natsURL, "nats-url", "nats://localhost:4222", "NATS URL for --cache nats")

	return cmd
}

func renderWatch(data *agro.MapData, stats agro.CacheStats) {
	fmt.Printf("\n=== AgroIPA operations (%s) ===\n", time.Now().Format("15:04:05"))
	fmt.Printf("Points: %d  Routes in progress: %d  Active agents: %d  (cache hit rate %.0f%%)\n",
		len(data.Points), len(data.Routes), len(data.Agents), stats.GetHitRate()*100)

	if len(data.Routes) > 0 {
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Route", "Origin", "Destination", "Stops")

		for _, route := range data.Routes {
			table.Append(route.Name, route.Origin.Name, route.Destination.Name, strconv.Itoa(len(route.Stops)))
		}

		_ = table.Render()
	}

	if len(data.Agents) > 0 {
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Agent", "Phone", "Position")

		for _, agent := range data.Agents {
			position := ""
			if agent.CurrentLatitude != nil && agent.CurrentLongitude != nil {
				position = fmt.Sprintf("%.5f, %.5f", *agent.CurrentLatitude, *agent.CurrentLongitude)
			}

			table.Append(agent.Name, agent.Phone, position)
		}

		_ = table.Render()
	}
}
