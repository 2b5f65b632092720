/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alexliesenfeld/health"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/medvault/vault/pkg/blobstore"
	"github.com/medvault/vault/pkg/blobstore/casnet"
	"github.com/medvault/vault/pkg/encryption"
	"github.com/medvault/vault/pkg/encryption/keyauthority"
	"github.com/medvault/vault/pkg/imagecache"
	"github.com/medvault/vault/pkg/ledger"
	"github.com/medvault/vault/pkg/observability/metrics"
	"github.com/medvault/vault/pkg/observability/metrics/noop"
	"github.com/medvault/vault/pkg/observability/metrics/prometheus"
	"github.com/medvault/vault/pkg/policy"
	"github.com/medvault/vault/pkg/restapi/resterr"
	"github.com/medvault/vault/pkg/restapi/v1/mw"
	restvault "github.com/medvault/vault/pkg/restapi/v1/vault"
	"github.com/medvault/vault/pkg/restapi/v1/version"
	"github.com/medvault/vault/pkg/service/consent"
	"github.com/medvault/vault/pkg/service/healthrecord"
	"github.com/medvault/vault/pkg/storage/mongodb"
	"github.com/medvault/vault/pkg/storage/mongodb/sharestore"
	"github.com/medvault/vault/pkg/storage/redis"
	"github.com/medvault/vault/pkg/storage/redis/sessionstore"
	s3blobstore "github.com/medvault/vault/pkg/storage/s3/blobstore"
)

var logger = log.New("vault-rest")

const vaultDatabaseName = "vault"

type server interface {
	ListenAndServe(host string, handler http.Handler) error
}

// HTTPServer is the production server implementation.
type HTTPServer struct{}

// ListenAndServe starts the server using the standard Go HTTP server.
func (s *HTTPServer) ListenAndServe(host string, handler http.Handler) error {
	return http.ListenAndServe(host, handler) //nolint:gosec
}

// StartOpt configures the start command.
type StartOpt func(*startOpts)

type startOpts struct {
	version       string
	serverVersion string
}

// WithVersion sets the build version reported by the version endpoint.
func WithVersion(version string) StartOpt {
	return func(o *startOpts) {
		o.version = version
	}
}

// WithServerVersion sets the deployed system version.
func WithServerVersion(version string) StartOpt {
	return func(o *startOpts) {
		o.serverVersion = version
	}
}

// GetStartCmd returns the Cobra start command.
func GetStartCmd(srv server, opts ...StartOpt) *cobra.Command {
	startCmd := createStartCmd(srv, opts...)

	createFlags(startCmd)

	return startCmd
}

func createStartCmd(srv server, opts ...StartOpt) *cobra.Command {
	o := &startOpts{}

	for _, fn := range opts {
		fn(o)
	}

	return &cobra.Command{
		Use:   "start",
		Short: "Start vault-rest",
		Long:  "Start the vault REST server",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := getStartupParameters(cmd)
			if err != nil {
				return err
			}

			return startService(params, o, srv)
		},
	}
}

func startService(params *startupParameters, o *startOpts, srv server) error {
	ledgerClient := ledger.NewClient(params.ledgerRPCURL)

	threshold := params.threshold
	if threshold <= 0 {
		threshold = encryption.RecommendedThreshold(len(params.keyServers))
	}

	engine := encryption.Get(&encryption.Config{
		Network:   params.network,
		Verify:    params.verifyKeyServers,
		ServerIDs: serverIDs(params.keyServers),
		Provider:  keyauthority.NewClient(params.keyServers),
	})

	m := serviceMetrics(params)

	store, err := createBlobStore(params, ledgerClient, m)
	if err != nil {
		return err
	}

	recordSvc := healthrecord.New(&healthrecord.Config{
		Crypto:    engine,
		BlobStore: store,
		Ledger:    ledgerClient,
		Policy: policy.NewBuilder(&policy.Config{
			Ledger:          ledgerClient,
			ContractAddress: params.policyContract,
		}),
		RegistryRef:   params.registryRef,
		ClockRef:      params.clockRef,
		Threshold:     threshold,
		StorageEpochs: params.storageEpochs,
		Metrics:       m,
	})

	redisClient, err := redis.New(params.redisURLs)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}

	mongoClient, err := mongodb.New(params.mongoDBURL, vaultDatabaseName)
	if err != nil {
		return fmt.Errorf("connect to mongodb: %w", err)
	}

	shareStore, err := sharestore.NewStore(context.Background(), mongoClient)
	if err != nil {
		return fmt.Errorf("create share store: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = resterr.HTTPErrorHandler
	e.Use(middleware.Recover())

	if params.apiKey != "" {
		e.Use(mw.APIKeyAuth(params.apiKey))
	}

	version.NewController(e, version.Config{
		Version:       o.version,
		ServerVersion: o.serverVersion,
	})

	restvault.NewController(e, &restvault.Config{
		Records:    recordSvc,
		Consent:    consent.New(&consent.Config{Ledger: ledgerClient, Registry: shareStore}),
		Sessions:   sessionstore.New(redisClient),
		Assets:     newAssetCache(params, m),
		SessionTTL: params.sessionTTL,
	})

	e.GET("/healthcheck", echo.WrapHandler(health.NewHandler(
		newHealthChecker(params, ledgerClient, redisClient, mongoClient))))

	logger.Info("starting vault-rest server", log.WithURL(params.hostURL))

	return srv.ListenAndServe(params.hostURL, e)
}

func createBlobStore(
	params *startupParameters, ledgerClient *ledger.Client, m metrics.Metrics) (blobstore.Store, error) {
	switch params.blobStoreType {
	case blobStoreTypeCasnetOption:
		return casnet.NewNetwork(&casnet.Config{
			RelayURL:       params.relayURL,
			AggregatorURLs: params.aggregatorURLs,
			Ledger:         ledgerClient,
			Metrics:        m,
		}), nil
	case blobStoreTypeS3Option:
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(params.s3Region))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}

		return s3blobstore.NewStore(s3.NewFromConfig(awsCfg), params.s3Bucket), nil
	default:
		return nil, fmt.Errorf("unsupported blob store type %q", params.blobStoreType)
	}
}

// serviceMetrics starts the Prometheus endpoint when one is configured and
// returns the metrics sink services should record into.
func serviceMetrics(params *startupParameters) metrics.Metrics {
	if params.promHTTPURL == "" {
		return noop.GetMetrics()
	}

	provider := prometheus.NewPrometheusProvider(&http.Server{ //nolint:gosec
		Addr:    params.promHTTPURL,
		Handler: promhttp.Handler(),
	})

	go func() {
		if err := provider.Create(); err != nil {
			logger.Error("metrics server stopped", log.WithError(err))
		}
	}()

	return provider.Metrics()
}

func newAssetCache(params *startupParameters, m metrics.Metrics) *imagecache.Cache {
	var opts []imagecache.Opt
	if params.imageCacheCapacity > 0 {
		opts = append(opts, imagecache.WithCapacity(params.imageCacheCapacity))
	}

	return imagecache.New(m, opts...)
}

func newHealthChecker(params *startupParameters, ledgerClient *ledger.Client,
	redisClient *redis.Client, mongoClient *mongodb.Client) health.Checker {
	opts := []health.CheckerOption{
		health.WithCheck(health.Check{
			Name:  "ledger",
			Check: ledgerClient.Health,
		}),
		health.WithCheck(health.Check{
			Name: "redis",
			Check: func(ctx context.Context) error {
				return redisClient.API().Ping(ctx).Err()
			},
		}),
		health.WithCheck(health.Check{
			Name: "mongodb",
			Check: func(ctx context.Context) error {
				return mongoClient.Database().Client().Ping(ctx, nil)
			},
		}),
	}

	if params.blobStoreType == blobStoreTypeCasnetOption {
		opts = append(opts, health.WithCheck(health.Check{
			Name:  "relay",
			Check: relayCheck(params.relayURL),
		}))
	}

	return health.NewChecker(opts...)
}

func relayCheck(relayURL string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, relayURL, http.NoBody)
		if err != nil {
			return err
		}

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return err
		}

		return resp.Body.Close()
	}
}

func serverIDs(servers []keyauthority.Server) []string {
	ids := make([]string, len(servers))
	for i, s := range servers {
		ids[i] = s.ID
	}

	return ids
}
