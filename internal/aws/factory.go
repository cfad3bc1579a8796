/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/orien/stackpilot/internal/version"
)

// ClientFactory hands out region-specific operations sharing one set of credentials
type ClientFactory interface {
	CloudFormation(ctx context.Context, region string) (CloudFormationOperations, error)
	Storage(ctx context.Context, region string) (StorageOperations, error)
	Logs(ctx context.Context, region string) (LogOperations, error)
}

// regionClients holds the operations created for one region
type regionClients struct {
	cfn     CloudFormationOperations
	storage StorageOperations
	logs    LogOperations
}

// DefaultClientFactory implements ClientFactory with caching and shared authentication
type DefaultClientFactory struct {
	baseConfig  aws.Config
	clientCache map[string]*regionClients
	mutex       sync.RWMutex
}

// NewClientFactory loads the shared AWS configuration, optionally from a named profile
func NewClientFactory(ctx context.Context, profile string) (*DefaultClientFactory, error) {
	opts := []func(*config.LoadOptions) error{config.WithAppID(version.AppID())}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	baseConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return NewClientFactoryWithConfig(baseConfig), nil
}

// NewClientFactoryWithConfig creates a factory from an existing configuration
func NewClientFactoryWithConfig(baseConfig aws.Config) *DefaultClientFactory {
	return &DefaultClientFactory{
		baseConfig:  baseConfig,
		clientCache: make(map[string]*regionClients),
	}
}

// CloudFormation returns CloudFormation operations for region
func (f *DefaultClientFactory) CloudFormation(_ context.Context, region string) (CloudFormationOperations, error) {
	clients, err := f.forRegion(region)
	if err != nil {
		return nil, err
	}
	return clients.cfn, nil
}

// Storage returns S3 operations for region
func (f *DefaultClientFactory) Storage(_ context.Context, region string) (StorageOperations, error) {
	clients, err := f.forRegion(region)
	if err != nil {
		return nil, err
	}
	return clients.storage, nil
}

// Logs returns CloudWatch Logs operations for region
func (f *DefaultClientFactory) Logs(_ context.Context, region string) (LogOperations, error) {
	clients, err := f.forRegion(region)
	if err != nil {
		return nil, err
	}
	return clients.logs, nil
}

func (f *DefaultClientFactory) forRegion(region string) (*regionClients, error) {
	if region == "" {
		return nil, fmt.Errorf("region cannot be empty")
	}

	// Check cache first (read lock)
	f.mutex.RLock()
	if clients, exists := f.clientCache[region]; exists {
		f.mutex.RUnlock()
		return clients, nil
	}
	f.mutex.RUnlock()

	f.mutex.Lock()
	defer f.mutex.Unlock()
	if clients, exists := f.clientCache[region]; exists {
		return clients, nil
	}

	regionConfig := f.baseConfig.Copy()
	regionConfig.Region = region

	clients := &regionClients{
		cfn:     NewCloudFormationOperationsWithClient(cloudformation.NewFromConfig(regionConfig)),
		storage: NewStorageOperationsWithClient(s3.NewFromConfig(regionConfig), region),
		logs:    NewLogOperationsWithClient(cloudwatchlogs.NewFromConfig(regionConfig)),
	}
	f.clientCache[region] = clients
	return clients, nil
}
