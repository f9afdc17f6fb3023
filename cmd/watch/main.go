package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"whisperstudio/config"
	"whisperstudio/events"
	"whisperstudio/types"
	"whisperstudio/workflow"
)

// watch tails the run event topic and prints one line per state transition
func main() {
	settings := config.Load()

	group := flag.String("group", config.GetEnvOrDefault("KAFKA_GROUP_ID", config.DefaultKafkaGroupID), "consumer group ID")
	fromOldest := flag.Bool("from-oldest", false, "replay the topic from the beginning")
	flag.Parse()

	if len(settings.KafkaBrokers) == 0 {
		log.Fatal("❌ KAFKA_BOOTSTRAP_SERVERS is not set")
	}

	consumer, err := events.NewConsumer(events.ConsumerConfig{
		Brokers:    settings.KafkaBrokers,
		Topic:      settings.KafkaTopic,
		GroupID:    *group,
		FromOldest: *fromOldest,
		Handler:    events.NewRunEventHandler(printEvent),
	})
	if err != nil {
		log.Fatalf("❌ Failed to create consumer: %v", err)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := consumer.Run(ctx); err != nil {
		log.Fatalf("❌ Consumer stopped: %v", err)
	}
	log.Println("👋 Watch stopped")
}

func printEvent(ctx context.Context, e *types.RunEvent) error {
	line := fmt.Sprintf("%s  %s  %-18s", e.Timestamp.Format("15:04:05"), e.RunID[:min(8, len(e.RunID))], e.State)
	switch e.State {
	case types.StateError:
		line += fmt.Sprintf(" ❌ %s: %s", workflow.StageLabel(types.State(e.Stage)), e.Error)
	case types.StateDone:
		line += " ✅ " + e.Message
	}
	fmt.Println(line)
	return nil
}
