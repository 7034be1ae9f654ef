package main

import (
	"context"
	"net/http"
	"os"

	"github.com/maccessmap/backend/config"
	"github.com/maccessmap/backend/internal/domain"
	"github.com/maccessmap/backend/internal/domain/badge"
	"github.com/maccessmap/backend/internal/repository"
	"github.com/maccessmap/backend/pkg/api/classifier"
	"github.com/maccessmap/backend/pkg/api/geocoder"
	"github.com/maccessmap/backend/pkg/api/pinata"
	"github.com/maccessmap/backend/pkg/authenticator"
	"github.com/maccessmap/backend/pkg/blockchain/eth"
	"github.com/maccessmap/backend/pkg/logger"
	"github.com/maccessmap/backend/pkg/router"
	"github.com/maccessmap/backend/pkg/storage"
	"github.com/maccessmap/backend/pkg/xcontext"
	"github.com/maccessmap/backend/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App

	configs *config.Configs
	logger  logger.Logger
	db      *gorm.DB

	redisClient xredis.Client
	storage     storage.Storage

	pinataEndpoint     pinata.IEndpoint
	classifierEndpoint classifier.IEndpoint
	geocoderEndpoint   geocoder.IEndpoint
	minter             eth.Minter
	oauth2Services     []authenticator.IOAuth2Service

	userRepo         repository.UserRepository
	oauth2Repo       repository.OAuth2Repository
	refreshTokenRepo repository.RefreshTokenRepository
	locationRepo     repository.LocationRepository
	reviewRepo       repository.ReviewRepository
	badgeMintRepo    repository.BadgeMintRepository
	fileRepo         repository.FileRepository

	badgeRecorder *badge.Recorder

	authDomain     domain.AuthDomain
	userDomain     domain.UserDomain
	locationDomain domain.LocationDomain
	reviewDomain   domain.ReviewDomain
	badgeDomain    domain.BadgeDomain
	fileDomain     domain.FileDomain

	router *router.Router
	server *http.Server
}

// baseContext carries config, logger and db for code that runs outside
// of a request.
func (s *srv) baseContext() context.Context {
	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, *s.configs)
	ctx = xcontext.WithLogger(ctx, s.logger)
	if s.db != nil {
		ctx = xcontext.WithDB(ctx, s.db)
	}

	return ctx
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level = logger.ParseLevel(v)
	}

	s.logger = logger.NewLogger(level)
}

func (s *srv) loadDatabase() {
	var err error
	s.db, err = gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadRedis() {
	client, err := xredis.NewClient(s.baseContext(), s.configs.Redis)
	if err != nil {
		s.logger.Warnf("Cannot connect to redis, caching is disabled: %v", err)
		return
	}

	s.redisClient = client
}

func (s *srv) loadStorage() {
	s.storage = storage.NewS3Storage(s.configs.Storage)
}

func (s *srv) loadEndpoints() {
	s.pinataEndpoint = pinata.New(s.configs.Pinata)
	s.classifierEndpoint = classifier.New(s.configs.Classifier)
	s.geocoderEndpoint = geocoder.New(s.configs.Geocoder)

	if s.configs.Eth.PrivateKey != "" {
		minter, err := eth.NewMinter(s.configs.Eth)
		if err != nil {
			s.logger.Warnf("Cannot setup minter, badge minting is disabled: %v", err)
		} else {
			s.minter = minter
		}
	}

	if s.configs.Auth.Google.ClientID != "" {
		google, err := authenticator.NewOAuth2Service(s.baseContext(), s.configs.Auth.Google)
		if err != nil {
			panic(err)
		}

		s.oauth2Services = append(s.oauth2Services, google)
	}
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository(s.redisClient)
	s.oauth2Repo = repository.NewOAuth2Repository()
	s.refreshTokenRepo = repository.NewRefreshTokenRepository()
	s.locationRepo = repository.NewLocationRepository()
	s.reviewRepo = repository.NewReviewRepository()
	s.badgeMintRepo = repository.NewBadgeMintRepository()
	s.fileRepo = repository.NewFileRepository()
}

func (s *srv) loadDomains() {
	s.badgeRecorder = badge.NewRecorder(s.reviewRepo, s.badgeMintRepo)

	locationDomain := domain.NewLocationDomain(s.locationRepo, s.reviewRepo, s.geocoderEndpoint)
	s.authDomain = domain.NewAuthDomain(
		s.baseContext(), s.userRepo, s.refreshTokenRepo, s.oauth2Repo, s.oauth2Services)
	s.userDomain = domain.NewUserDomain(s.userRepo, s.reviewRepo, s.badgeMintRepo, s.redisClient)
	s.locationDomain = locationDomain
	s.reviewDomain = domain.NewReviewDomain(
		s.reviewRepo, s.userRepo, locationDomain, s.badgeRecorder, s.classifierEndpoint, s.redisClient)
	s.badgeDomain = domain.NewBadgeDomain(
		s.userRepo, s.reviewRepo, s.badgeMintRepo, s.badgeRecorder, s.pinataEndpoint, s.minter)
	s.fileDomain = domain.NewFileDomain(s.fileRepo, s.storage, s.pinataEndpoint)
}
