package icu

import (
	"context"
	"fmt"
	"time"

	"vitalwatch-service/internal/app/models"
	"vitalwatch-service/internal/pkg/constvars"
	"vitalwatch-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

type patientCacheRedisRepository struct {
	client *redis.Client
}

func NewPatientCacheRedisRepository(client *redis.Client) PatientCacheRepository {
	return &patientCacheRedisRepository{client: client}
}

func (r *patientCacheRedisRepository) GetLatestRecord(ctx context.Context, userID string) (*models.PatientRecord, error) {
	key := fmt.Sprintf(constvars.CacheKeyUserLatestFormat, userID)
	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrRedisGet(err)
	}

	var record models.PatientRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}
	return &record, nil
}

func (r *patientCacheRedisRepository) SetLatestRecord(ctx context.Context, record *models.PatientRecord) error {
	jsonValue, err := json.Marshal(record)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	key := fmt.Sprintf(constvars.CacheKeyUserLatestFormat, record.UserID)
	expiration := time.Duration(constvars.CacheUserLatestTTLInSeconds) * time.Second
	if err := r.client.Set(ctx, key, jsonValue, expiration).Err(); err != nil {
		return exceptions.ErrRedisSet(err)
	}
	return nil
}

func (r *patientCacheRedisRepository) GetStatistics(ctx context.Context, userID string) (*models.UserStatistics, error) {
	key := fmt.Sprintf(constvars.CacheKeyUserStatsFormat, userID)
	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrRedisGet(err)
	}

	var statistics models.UserStatistics
	if err := json.Unmarshal([]byte(data), &statistics); err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}
	return &statistics, nil
}

func (r *patientCacheRedisRepository) SetStatistics(ctx context.Context, userID string, statistics *models.UserStatistics) error {
	jsonValue, err := json.Marshal(statistics)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	key := fmt.Sprintf(constvars.CacheKeyUserStatsFormat, userID)
	expiration := time.Duration(constvars.CacheUserStatsTTLInSeconds) * time.Second
	if err := r.client.Set(ctx, key, jsonValue, expiration).Err(); err != nil {
		return exceptions.ErrRedisSet(err)
	}
	return nil
}
