/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	cmdutils "github.com/trustbloc/cmdutil-go/pkg/utils/cmd"

	"github.com/medvault/vault/pkg/encryption/keyauthority"
)

const (
	commonEnvVarUsageText = "Alternatively, this can be set with the following environment variable: "

	hostURLFlagName      = "host-url"
	hostURLFlagShorthand = "u"
	hostURLFlagUsage     = "URL to run the vault-rest instance on. Format: HostName:Port."
	hostURLEnvKey        = "VAULT_REST_HOST_URL"

	ledgerRPCURLFlagName  = "ledger-rpc-url"
	ledgerRPCURLEnvKey    = "VAULT_REST_LEDGER_RPC_URL"
	ledgerRPCURLFlagUsage = "Ledger RPC endpoint. " + commonEnvVarUsageText + ledgerRPCURLEnvKey

	networkFlagName  = "network"
	networkEnvKey    = "VAULT_REST_NETWORK"
	networkFlagUsage = "Ledger/storage network selector (e.g. mainnet, testnet). " +
		commonEnvVarUsageText + networkEnvKey

	verifyKeyServersFlagName  = "verify-key-servers"
	verifyKeyServersEnvKey    = "VAULT_REST_VERIFY_KEY_SERVERS"
	verifyKeyServersFlagUsage = "Enable key-server certificate verification. Possible values: true, false " +
		"(default: false). " + commonEnvVarUsageText + verifyKeyServersEnvKey

	keyServerURLsFlagName  = "key-server-urls"
	keyServerURLsEnvKey    = "VAULT_REST_KEY_SERVER_URLS"
	keyServerURLsFlagUsage = "Comma-separated list of key-authority servers, each as serverID=URL. " +
		commonEnvVarUsageText + keyServerURLsEnvKey

	thresholdFlagName  = "threshold"
	thresholdEnvKey    = "VAULT_REST_THRESHOLD"
	thresholdFlagUsage = "Key-share threshold for sealing new blobs. Defaults to the recommended " +
		"threshold for the configured fleet size. " + commonEnvVarUsageText + thresholdEnvKey

	policyContractFlagName  = "policy-contract"
	policyContractEnvKey    = "VAULT_REST_POLICY_CONTRACT"
	policyContractFlagUsage = "Address of the on-ledger access policy contract. " +
		commonEnvVarUsageText + policyContractEnvKey

	registryRefFlagName  = "registry-ref"
	registryRefEnvKey    = "VAULT_REST_REGISTRY_REF"
	registryRefFlagUsage = "Object reference of the owner registry anchoring owner-only access proofs. " +
		commonEnvVarUsageText + registryRefEnvKey

	clockRefFlagName  = "clock-ref"
	clockRefEnvKey    = "VAULT_REST_CLOCK_REF"
	clockRefFlagUsage = "Object reference of the ledger clock anchoring consent-scoped access proofs. " +
		commonEnvVarUsageText + clockRefEnvKey

	blobStoreTypeFlagName  = "blob-store-type"
	blobStoreTypeEnvKey    = "VAULT_REST_BLOB_STORE_TYPE"
	blobStoreTypeFlagUsage = "The blob store backend. Supported options: casnet, s3. " +
		commonEnvVarUsageText + blobStoreTypeEnvKey

	blobStoreTypeCasnetOption = "casnet"
	blobStoreTypeS3Option     = "s3"

	relayURLFlagName  = "relay-url"
	relayURLEnvKey    = "VAULT_REST_RELAY_URL"
	relayURLFlagUsage = "Storage relay host. Required for the casnet blob store. " +
		commonEnvVarUsageText + relayURLEnvKey

	aggregatorURLsFlagName  = "aggregator-urls"
	aggregatorURLsEnvKey    = "VAULT_REST_AGGREGATOR_URLS"
	aggregatorURLsFlagUsage = "Comma-separated list of alternate read gateways, tried after the relay. " +
		commonEnvVarUsageText + aggregatorURLsEnvKey

	s3BucketFlagName  = "s3-bucket"
	s3BucketEnvKey    = "VAULT_REST_S3_BUCKET"
	s3BucketFlagUsage = "S3 bucket for sealed blobs. Required for the s3 blob store. " +
		commonEnvVarUsageText + s3BucketEnvKey

	s3RegionFlagName  = "s3-region"
	s3RegionEnvKey    = "VAULT_REST_S3_REGION"
	s3RegionFlagUsage = "AWS region of the blob bucket. " + commonEnvVarUsageText + s3RegionEnvKey

	storageEpochsFlagName  = "storage-epochs"
	storageEpochsEnvKey    = "VAULT_REST_STORAGE_EPOCHS"
	storageEpochsFlagUsage = "Number of storage epochs to fund for newly uploaded blobs (default: 1). " +
		commonEnvVarUsageText + storageEpochsEnvKey

	redisURLFlagName  = "redis-url"
	redisURLEnvKey    = "VAULT_REST_REDIS_URL"
	redisURLFlagUsage = "Comma-separated list of Redis addresses backing the session store. " +
		commonEnvVarUsageText + redisURLEnvKey

	mongoDBURLFlagName  = "mongodb-url"
	mongoDBURLEnvKey    = "VAULT_REST_MONGODB_URL"
	mongoDBURLFlagUsage = "MongoDB connection string backing the consent share registry. " +
		commonEnvVarUsageText + mongoDBURLEnvKey

	sessionTTLFlagName  = "session-ttl"
	sessionTTLEnvKey    = "VAULT_REST_SESSION_TTL"
	sessionTTLFlagUsage = "Decryption session lifetime, e.g. 10m (default: 10m). " +
		commonEnvVarUsageText + sessionTTLEnvKey

	imageCacheCapacityFlagName  = "image-cache-capacity"
	imageCacheCapacityEnvKey    = "VAULT_REST_IMAGE_CACHE_CAPACITY"
	imageCacheCapacityFlagUsage = "Maximum number of decrypted imaging assets held in memory (default: 50). " +
		commonEnvVarUsageText + imageCacheCapacityEnvKey

	promHTTPURLFlagName  = "prom-http-url"
	promHTTPURLEnvKey    = "VAULT_REST_PROM_HTTP_URL"
	promHTTPURLFlagUsage = "Host:Port to expose Prometheus metrics on. Metrics are disabled when unset. " +
		commonEnvVarUsageText + promHTTPURLEnvKey

	apiKeyFlagName  = "api-key"
	apiKeyEnvKey    = "VAULT_REST_API_KEY" //nolint:gosec
	apiKeyFlagUsage = "API key protecting the vault endpoints. Authentication is disabled when unset. " +
		commonEnvVarUsageText + apiKeyEnvKey
)

type startupParameters struct {
	hostURL            string
	ledgerRPCURL       string
	network            string
	verifyKeyServers   bool
	keyServers         []keyauthority.Server
	threshold          int
	policyContract     string
	registryRef        string
	clockRef           string
	blobStoreType      string
	relayURL           string
	aggregatorURLs     []string
	s3Bucket           string
	s3Region           string
	storageEpochs      int
	redisURLs          []string
	mongoDBURL         string
	sessionTTL         time.Duration
	imageCacheCapacity int
	promHTTPURL        string
	apiKey             string
}

//nolint:funlen,gocyclo
func getStartupParameters(cmd *cobra.Command) (*startupParameters, error) {
	hostURL, err := cmdutils.GetUserSetVarFromString(cmd, hostURLFlagName, hostURLEnvKey, false)
	if err != nil {
		return nil, err
	}

	ledgerRPCURL, err := cmdutils.GetUserSetVarFromString(cmd, ledgerRPCURLFlagName, ledgerRPCURLEnvKey, false)
	if err != nil {
		return nil, err
	}

	network, err := cmdutils.GetUserSetVarFromString(cmd, networkFlagName, networkEnvKey, false)
	if err != nil {
		return nil, err
	}

	verifyKeyServers, err := getBool(cmd, verifyKeyServersFlagName, verifyKeyServersEnvKey, false)
	if err != nil {
		return nil, err
	}

	keyServerURLs, err := cmdutils.GetUserSetVarFromArrayString(cmd, keyServerURLsFlagName,
		keyServerURLsEnvKey, false)
	if err != nil {
		return nil, err
	}

	keyServers, err := parseKeyServers(keyServerURLs)
	if err != nil {
		return nil, err
	}

	threshold, err := getInt(cmd, thresholdFlagName, thresholdEnvKey, 0)
	if err != nil {
		return nil, err
	}

	policyContract, err := cmdutils.GetUserSetVarFromString(cmd, policyContractFlagName,
		policyContractEnvKey, false)
	if err != nil {
		return nil, err
	}

	registryRef, err := cmdutils.GetUserSetVarFromString(cmd, registryRefFlagName, registryRefEnvKey, false)
	if err != nil {
		return nil, err
	}

	clockRef, err := cmdutils.GetUserSetVarFromString(cmd, clockRefFlagName, clockRefEnvKey, true)
	if err != nil {
		return nil, err
	}

	blobStoreParams, err := getBlobStoreParameters(cmd)
	if err != nil {
		return nil, err
	}

	storageEpochs, err := getInt(cmd, storageEpochsFlagName, storageEpochsEnvKey, 1)
	if err != nil {
		return nil, err
	}

	redisURLs, err := cmdutils.GetUserSetVarFromArrayString(cmd, redisURLFlagName, redisURLEnvKey, false)
	if err != nil {
		return nil, err
	}

	mongoDBURL, err := cmdutils.GetUserSetVarFromString(cmd, mongoDBURLFlagName, mongoDBURLEnvKey, false)
	if err != nil {
		return nil, err
	}

	sessionTTL, err := getDuration(cmd, sessionTTLFlagName, sessionTTLEnvKey, 0)
	if err != nil {
		return nil, err
	}

	imageCacheCapacity, err := getInt(cmd, imageCacheCapacityFlagName, imageCacheCapacityEnvKey, 0)
	if err != nil {
		return nil, err
	}

	promHTTPURL, err := cmdutils.GetUserSetVarFromString(cmd, promHTTPURLFlagName, promHTTPURLEnvKey, true)
	if err != nil {
		return nil, err
	}

	apiKey, err := cmdutils.GetUserSetVarFromString(cmd, apiKeyFlagName, apiKeyEnvKey, true)
	if err != nil {
		return nil, err
	}

	return &startupParameters{
		hostURL:            hostURL,
		ledgerRPCURL:       ledgerRPCURL,
		network:            network,
		verifyKeyServers:   verifyKeyServers,
		keyServers:         keyServers,
		threshold:          threshold,
		policyContract:     policyContract,
		registryRef:        registryRef,
		clockRef:           clockRef,
		blobStoreType:      blobStoreParams.storeType,
		relayURL:           blobStoreParams.relayURL,
		aggregatorURLs:     blobStoreParams.aggregatorURLs,
		s3Bucket:           blobStoreParams.s3Bucket,
		s3Region:           blobStoreParams.s3Region,
		storageEpochs:      storageEpochs,
		redisURLs:          redisURLs,
		mongoDBURL:         mongoDBURL,
		sessionTTL:         sessionTTL,
		imageCacheCapacity: imageCacheCapacity,
		promHTTPURL:        promHTTPURL,
		apiKey:             apiKey,
	}, nil
}

type blobStoreParameters struct {
	storeType      string
	relayURL       string
	aggregatorURLs []string
	s3Bucket       string
	s3Region       string
}

func getBlobStoreParameters(cmd *cobra.Command) (*blobStoreParameters, error) {
	storeType, err := cmdutils.GetUserSetVarFromString(cmd, blobStoreTypeFlagName, blobStoreTypeEnvKey, false)
	if err != nil {
		return nil, err
	}

	params := &blobStoreParameters{storeType: strings.ToLower(storeType)}

	switch params.storeType {
	case blobStoreTypeCasnetOption:
		params.relayURL, err = cmdutils.GetUserSetVarFromString(cmd, relayURLFlagName, relayURLEnvKey, false)
		if err != nil {
			return nil, err
		}

		params.aggregatorURLs, err = cmdutils.GetUserSetVarFromArrayString(cmd, aggregatorURLsFlagName,
			aggregatorURLsEnvKey, true)
		if err != nil {
			return nil, err
		}
	case blobStoreTypeS3Option:
		params.s3Bucket, err = cmdutils.GetUserSetVarFromString(cmd, s3BucketFlagName, s3BucketEnvKey, false)
		if err != nil {
			return nil, err
		}

		params.s3Region, err = cmdutils.GetUserSetVarFromString(cmd, s3RegionFlagName, s3RegionEnvKey, false)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported blob store type %q: run start --help to see the available options",
			storeType)
	}

	return params, nil
}

// parseKeyServers parses serverID=URL pairs.
func parseKeyServers(entries []string) ([]keyauthority.Server, error) {
	servers := make([]keyauthority.Server, 0, len(entries))

	for _, entry := range entries {
		id, url, found := strings.Cut(entry, "=")
		if !found || id == "" || url == "" {
			return nil, fmt.Errorf("invalid key server entry %q: expected serverID=URL", entry)
		}

		servers = append(servers, keyauthority.Server{ID: id, URL: url})
	}

	return servers, nil
}

func getBool(cmd *cobra.Command, flagName, envKey string, defaultVal bool) (bool, error) {
	str, err := cmdutils.GetUserSetVarFromString(cmd, flagName, envKey, true)
	if err != nil {
		return false, err
	}

	if str == "" {
		return defaultVal, nil
	}

	val, err := strconv.ParseBool(str)
	if err != nil {
		return false, fmt.Errorf("invalid value for %s: %w", flagName, err)
	}

	return val, nil
}

func getInt(cmd *cobra.Command, flagName, envKey string, defaultVal int) (int, error) {
	str, err := cmdutils.GetUserSetVarFromString(cmd, flagName, envKey, true)
	if err != nil {
		return 0, err
	}

	if str == "" {
		return defaultVal, nil
	}

	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", flagName, err)
	}

	return val, nil
}

func getDuration(cmd *cobra.Command, flagName, envKey string, defaultVal time.Duration) (time.Duration, error) {
	str, err := cmdutils.GetUserSetVarFromString(cmd, flagName, envKey, true)
	if err != nil {
		return 0, err
	}

	if str == "" {
		return defaultVal, nil
	}

	val, err := time.ParseDuration(str)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", flagName, err)
	}

	return val, nil
}

func createFlags(startCmd *cobra.Command) {
	startCmd.Flags().StringP(hostURLFlagName, hostURLFlagShorthand, "", hostURLFlagUsage)
	startCmd.Flags().StringP(ledgerRPCURLFlagName, "", "", ledgerRPCURLFlagUsage)
	startCmd.Flags().StringP(networkFlagName, "", "", networkFlagUsage)
	startCmd.Flags().StringP(verifyKeyServersFlagName, "", "", verifyKeyServersFlagUsage)
	startCmd.Flags().StringArrayP(keyServerURLsFlagName, "", []string{}, keyServerURLsFlagUsage)
	startCmd.Flags().StringP(thresholdFlagName, "", "", thresholdFlagUsage)
	startCmd.Flags().StringP(policyContractFlagName, "", "", policyContractFlagUsage)
	startCmd.Flags().StringP(registryRefFlagName, "", "", registryRefFlagUsage)
	startCmd.Flags().StringP(clockRefFlagName, "", "", clockRefFlagUsage)
	startCmd.Flags().StringP(blobStoreTypeFlagName, "", "", blobStoreTypeFlagUsage)
	startCmd.Flags().StringP(relayURLFlagName, "", "", relayURLFlagUsage)
	startCmd.Flags().StringArrayP(aggregatorURLsFlagName, "", []string{}, aggregatorURLsFlagUsage)
	startCmd.Flags().StringP(s3BucketFlagName, "", "", s3BucketFlagUsage)
	startCmd.Flags().StringP(s3RegionFlagName, "", "", s3RegionFlagUsage)
	startCmd.Flags().StringP(storageEpochsFlagName, "", "", storageEpochsFlagUsage)
	startCmd.Flags().StringArrayP(redisURLFlagName, "", []string{}, redisURLFlagUsage)
	startCmd.Flags().StringP(mongoDBURLFlagName, "", "", mongoDBURLFlagUsage)
	startCmd.Flags().StringP(sessionTTLFlagName, "", "", sessionTTLFlagUsage)
	startCmd.Flags().StringP(imageCacheCapacityFlagName, "", "", imageCacheCapacityFlagUsage)
	startCmd.Flags().StringP(promHTTPURLFlagName, "", "", promHTTPURLFlagUsage)
	startCmd.Flags().StringP(apiKeyFlagName, "", "", apiKeyFlagUsage)
}
