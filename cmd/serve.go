package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"artnetnode/internal/clientmqtt"
	"artnetnode/internal/config"
	"artnetnode/internal/logger"
	"artnetnode/internal/node"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MQTT subscription manager",
	Long: `Connect to the MQTT broker and keep the universe registry in sync with
the subscribe/unsubscribe/clear topics. The current ports are published
retained on <topic-prefix>/ports and logged every poll-interval.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig(configFile, nil)
		if err != nil {
			return err
		}

		n, err := buildNode(cfg, log, nil)
		if err != nil {
			log.With(logger.Fields{"module": "node"}).Errorf("error while creating the node. %v", err)
			return err
		}
		log.With(logger.Fields{"module": "node"}).Debug("node created ok")

		client := clientmqtt.NewClient(log, ConvertConfigClientMQTT(cfg.MQTT), n)
		log.With(logger.Fields{"module": "mqtt"}).Debug("NewClient created ok")

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		defer cancel()

		if err = client.Start(ctx); err != nil {
			return fmt.Errorf("failed to start MQTT service: %w", err)
		}

		go reportPorts(ctx, log, n, time.Duration(cfg.Node.PollInterval)*time.Second)

		<-ctx.Done()

		if err := client.Stop(); err != nil {
			log.Error("failed to stop MQTT service:", err.Error())
		}
		log.Info("shutdown complete")
		return nil
	},
}

// reportPorts is the reply-emission hook: it builds the replies every interval.
func reportPorts(ctx context.Context, log logger.Logger, n *node.Node, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			replies := n.PagedReplies()
			log.With(logger.Fields{"module": "node"}).Debugf("Currently %d universes are registered: %s, %d reply page(s)",
				n.ActiveCount(), node.MappingToString(n.Mapping()), len(replies))
		}
	}
}

// ConvertConfigClientMQTT преобразует структуры.
func ConvertConfigClientMQTT(cfg config.MQTTConf) clientmqtt.MQTTConf {
	return clientmqtt.MQTTConf{
		ClientID:    cfg.ClientID,
		Schema:      "tcp",
		Host:        cfg.Host,
		Port:        cfg.Port,
		User:        cfg.User,
		Password:    cfg.Password,
		Qos:         cfg.Qos,
		TopicPrefix: cfg.TopicPrefix,
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
