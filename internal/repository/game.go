package repository

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"goban/internal/bootstrap"
	"goban/internal/domain/game"
	"goban/internal/errors"
)

const gamesCollection = "games"

// GameRepository keeps live games in Redis and archives finished ones in
// Mongo. Reads fall back to the archive when Redis has no record.
type GameRepository struct {
	cfg   bootstrap.Config
	log   *zap.SugaredLogger
	redis *redis.Client
	mongo *mongo.Database
}

func NewGameRepository(cfg bootstrap.Config, log *zap.SugaredLogger, redis *redis.Client, mongo *mongo.Database) *GameRepository {
	return &GameRepository{
		cfg:   cfg,
		log:   log,
		redis: redis,
		mongo: mongo,
	}
}

func gameKey(id string) string {
	return "game:" + id
}

func (g *GameRepository) SaveGame(ctx context.Context, play game.Game) error {
	data, err := json.Marshal(play)
	if err != nil {
		return err
	}
	if err := g.redis.Set(ctx, gameKey(play.ID), data, g.cfg.RedisGameTTL).Err(); err != nil {
		return fmt.Errorf("%w: redis set: %v", errors.ErrStore, err)
	}
	return nil
}

func (g *GameRepository) GetGame(ctx context.Context, id string) (game.Game, error) {
	data, err := g.redis.Get(ctx, gameKey(id)).Bytes()
	switch {
	case err == nil:
		var play game.Game
		if err := json.Unmarshal(data, &play); err != nil {
			return game.Game{}, fmt.Errorf("%w: decode game %s: %v", errors.ErrStore, id, err)
		}
		return play, nil
	case stderrors.Is(err, redis.Nil):
		return g.getArchived(ctx, id)
	default:
		g.log.Errorf("redis get %s: %v", id, err)
		return game.Game{}, fmt.Errorf("%w: redis get: %v", errors.ErrStore, err)
	}
}

func (g *GameRepository) getArchived(ctx context.Context, id string) (game.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var play game.Game
	err := g.mongo.Collection(gamesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&play)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return game.Game{}, errors.ErrGameNotFound
	} else if err != nil {
		g.log.Error(err)
		return game.Game{}, fmt.Errorf("%w: mongo find: %v", errors.ErrStore, err)
	}
	return play, nil
}

func (g *GameRepository) ArchiveGame(ctx context.Context, play game.Game) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	_, err := g.mongo.Collection(gamesCollection).ReplaceOne(ctx, bson.M{"_id": play.ID}, play, opts)
	if err != nil {
		g.log.Errorf("failed to archive game to database: %v", err)
		return fmt.Errorf("%w: mongo replace: %v", errors.ErrStore, err)
	}

	if err := g.redis.Del(ctx, gameKey(play.ID)).Err(); err != nil {
		// a stale live key still expires after RedisGameTTL
		g.log.Warnf("failed to drop live game %s from redis: %v", play.ID, err)
	}

	g.log.Infof("game archived successfully with id: %s", play.ID)
	return nil
}
