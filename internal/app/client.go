// Package app composes the client: config, identity, transport, the
// reconciliation engine, group synchronization, and the REST collaborators,
// wired once and run until the context ends.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"zap-chat/go-client/internal/cache"
	"zap-chat/go-client/internal/config"
	"zap-chat/go-client/internal/groupsync"
	"zap-chat/go-client/internal/identity"
	"zap-chat/go-client/internal/metrics"
	"zap-chat/go-client/internal/platform/ratelimiter"
	"zap-chat/go-client/internal/presence"
	"zap-chat/go-client/internal/reconcile"
	"zap-chat/go-client/internal/rest"
	"zap-chat/go-client/internal/transport"
	"zap-chat/go-client/internal/typing"
	"zap-chat/go-client/pkg/models"
)

type Options struct {
	ConfigPath string
	Token      string
	Logger     *slog.Logger
	Registry   prometheus.Registerer
}

type Client struct {
	cfg    config.Config
	claims identity.Claims
	token  string
	logger *slog.Logger

	Conversations *cache.ConversationCache
	Stale         *cache.StaleSet
	Presence      *presence.Tracker
	Typing        *typing.Coordinator
	Transport     *transport.Adapter
	Engine        *reconcile.Engine
	Groups        *groupsync.Synchronizer
	REST          *rest.Client
}

func New(opts Options) (*Client, error) {
	claims, err := identity.DecodeClaims(opts.Token)
	if err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := config.LoadFromPath(opts.ConfigPath)
	m := metrics.New(opts.Registry)

	adapter := transport.NewAdapter(transport.Options{
		SocketURL:   cfg.SocketURL,
		DialTimeout: cfg.DialTimeout,
		Limiter:     ratelimiter.New(cfg.EmitRatePerSec, cfg.EmitBurst, 0),
		Logger:      logger,
		Metrics:     m,
	})

	conversations := cache.NewConversationCache()
	stale := cache.NewStaleSet()
	tracker := presence.NewTracker()

	coordinator := typing.NewCoordinator(cfg.TypingDebounce, typing.Emitter{
		Typing: func(key models.ConversationKey) {
			if key.Type == models.ConversationTypeGroup {
				_ = adapter.GroupTyping(key.ID)
				return
			}
			_ = adapter.Typing(key.ID)
		},
		StopTyping: func(key models.ConversationKey) {
			if key.Type == models.ConversationTypeGroup {
				_ = adapter.GroupStopTyping(key.ID)
				return
			}
			_ = adapter.StopTyping(key.ID)
		},
	}, nil)

	engine := reconcile.NewEngine(reconcile.Deps{
		SelfID:   claims.UserID,
		Cache:    conversations,
		Presence: tracker,
		Typing:   coordinator,
		Stale:    stale,
		Emits: reconcile.Emits{
			SendMessage:      adapter.SendMessage,
			SendGroupMessage: adapter.SendGroupMessage,
			MarkSeen:         adapter.MarkSeen,
			MessageDelivered: adapter.MessageDelivered,
			ActiveChat:       adapter.ActiveChat,
		},
		Logger:  logger,
		Metrics: m,
	})

	groups := groupsync.NewSynchronizer(groupsync.Deps{
		Conversations: conversations,
		Stale:         stale,
		JoinGroups:    adapter.JoinGroups,
		Logger:        logger,
	})

	restClient := rest.NewClient(cfg.APIBaseURL, opts.Token,
		rest.WithTimeout(cfg.RequestTimeout))

	return &Client{
		cfg:           cfg,
		claims:        claims,
		token:         opts.Token,
		logger:        logger,
		Conversations: conversations,
		Stale:         stale,
		Presence:      tracker,
		Typing:        coordinator,
		Transport:     adapter,
		Engine:        engine,
		Groups:        groups,
		REST:          restClient,
	}, nil
}

func (c *Client) SelfID() string {
	return c.claims.UserID
}

// Connect dials the socket and binds the event pipeline to the fresh
// connection. Listener registrations die with the connection, so they are
// re-made here on every call.
func (c *Client) Connect(ctx context.Context) error {
	if err := c.Transport.Connect(ctx, c.token); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	c.Transport.OnEvent(c.Engine.HandleEvent)
	c.Transport.OnEvent(c.Groups.HandleEvent)

	// Seed presence and group subscriptions the moment the wire is up.
	_ = c.Transport.GetOnlineUsers()
	_ = c.Transport.JoinGroups()
	return nil
}

// HydrateConversation seeds a conversation from REST history so the engine
// reconciles live events against a populated cache.
func (c *Client) HydrateConversation(ctx context.Context, key models.ConversationKey) error {
	var (
		page []models.Message
		err  error
	)
	if key.Type == models.ConversationTypeGroup {
		page, err = c.REST.GetGroupMessages(ctx, key.ID, "", c.cfg.HistoryPageSize)
	} else {
		page, err = c.REST.GetChatHistory(ctx, key.ID, "", c.cfg.HistoryPageSize)
	}
	if err != nil {
		return fmt.Errorf("hydrate %s: %w", key.String(), err)
	}
	c.Engine.HydrateHistory(key, page)
	c.Stale.ClearStale(staleResourceFor(key))
	return nil
}

func staleResourceFor(key models.ConversationKey) string {
	if key.Type == models.ConversationTypeGroup {
		return cache.ResourceGroupDetail(key.ID)
	}
	return cache.ResourceUserList
}

// Run connects, keeps the session alive until ctx ends, then disconnects.
// Reconnects after a dropped wire use a small fixed backoff; each attempt
// rebinds the listeners.
func (c *Client) Run(ctx context.Context) error {
	if err := c.Connect(ctx); err != nil {
		return err
	}
	c.logger.Info("client running",
		"component", "app", "operation", "run", "user_id", c.claims.UserID)

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			c.Transport.Disconnect()
			c.logger.Info("client stopped", "component", "app", "operation", "run")
			return nil
		case <-ticker.C:
			if c.Transport.State() == transport.StateDisconnected {
				if err := c.Connect(ctx); err != nil {
					c.logger.Warn("reconnect failed",
						"component", "app", "operation", "reconnect", "error", err.Error())
				}
			}
		}
	}
}
