package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"whisperstudio/types"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
)

func TestKafkaPublisherSendsJSONEvent(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event types.RunEvent
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		if event.RunID != "run-1" || event.State != types.StateComposing {
			return fmt.Errorf("unexpected event %+v", event)
		}
		return nil
	})

	p := NewKafkaPublisherFromProducer(producer, "studio-run-events")
	err := p.Publish(context.Background(), types.RunEvent{
		RunID:     "run-1",
		State:     types.StateComposing,
		Timestamp: time.Now(),
	})
	if err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
}

func TestKafkaPublisherSurfacesSendError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewKafkaPublisherFromProducer(producer, "studio-run-events")
	err := p.Publish(context.Background(), types.RunEvent{RunID: "run-1", State: types.StateDone})
	if !errors.Is(err, sarama.ErrOutOfBrokers) {
		t.Fatalf("Publish error = %v; want ErrOutOfBrokers", err)
	}
	_ = p.Close()
}

func TestNewPublisherWithoutBrokersIsNop(t *testing.T) {
	p := NewPublisher(ProducerConfig{})
	if _, ok := p.(NopPublisher); !ok {
		t.Fatalf("NewPublisher = %T; want NopPublisher", p)
	}
	if err := p.Publish(context.Background(), types.RunEvent{RunID: "x"}); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
}

func TestRunEventHandler(t *testing.T) {
	var got []string
	h := NewRunEventHandler(func(ctx context.Context, event *types.RunEvent) error {
		got = append(got, event.RunID)
		if event.RunID == "bad" {
			return errors.New("processing failed")
		}
		return nil
	})
	ctx := context.Background()

	cases := []struct {
		name     string
		payload  string
		wantMark bool
		wantErr  bool
	}{
		{"valid", `{"run_id":"run-1","state":"done"}`, true, false},
		{"malformed", `{not json`, true, false},
		{"missing run id", `{"state":"done"}`, true, false},
		{"process error", `{"run_id":"bad","state":"error"}`, false, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			mark, err := h.HandleMessage(ctx, []byte(c.payload))
			if mark != c.wantMark {
				t.Fatalf("mark = %v; want %v", mark, c.wantMark)
			}
			if (err != nil) != c.wantErr {
				t.Fatalf("err = %v; wantErr %v", err, c.wantErr)
			}
		})
	}
	if len(got) != 2 || got[0] != "run-1" || got[1] != "bad" {
		t.Fatalf("processed = %v", got)
	}
}
