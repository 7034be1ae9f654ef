package main

import (
	"fmt"
	"net/http"

	"github.com/maccessmap/backend/internal/middleware"
	"github.com/maccessmap/backend/pkg/router"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(ct *cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()
	s.loadRedis()
	s.loadStorage()
	s.loadEndpoints()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", s.configs.ApiServer.Port),
		Handler: s.router.Handler(),
	}

	s.logger.Infof("Starting server on port %s", s.configs.ApiServer.Port)
	if err := s.server.ListenAndServe(); err != nil {
		return err
	}

	s.logger.Infof("Server stopped")
	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, *s.configs, s.logger)
	s.router.AddCloser(middleware.Logger())

	// Auth API
	authRouter := s.router.Branch()
	authRouter.After(middleware.HandleSetAccessToken())
	authRouter.After(middleware.HandleSaveSession())
	{
		router.POST(authRouter, "/register", s.authDomain.Register)
		router.POST(authRouter, "/login", s.authDomain.Login)
		router.POST(authRouter, "/refresh", s.authDomain.Refresh)
		router.POST(authRouter, "/logout", s.authDomain.Logout)
		router.POST(authRouter, "/verifyOAuth2", s.authDomain.OAuth2Verify)
		router.POST(authRouter, "/loginWallet", s.authDomain.WalletLogin)
		router.POST(authRouter, "/verifyWallet", s.authDomain.WalletVerify)
	}

	// These following APIs need authentication with Access Token.
	authVerifier := middleware.NewAuthVerifier().WithAccessToken()
	tokenAuthRouter := s.router.Branch()
	tokenAuthRouter.Before(authVerifier.Middleware())
	{
		// User API
		router.GET(tokenAuthRouter, "/getMe", s.userDomain.GetMe)
		router.POST(tokenAuthRouter, "/updateUser", s.userDomain.UpdateUser)

		// Review API
		router.POST(tokenAuthRouter, "/createReview", s.reviewDomain.Create)
		router.POST(tokenAuthRouter, "/updateReview", s.reviewDomain.Update)
		router.POST(tokenAuthRouter, "/deleteReview", s.reviewDomain.Delete)
		router.POST(tokenAuthRouter, "/suggestTags", s.reviewDomain.SuggestTags)

		// Badge API
		router.GET(tokenAuthRouter, "/getNextBadge", s.badgeDomain.GetNextBadge)
		router.POST(tokenAuthRouter, "/mintBadges", s.badgeDomain.Mint)

		// Image API
		router.POST(tokenAuthRouter, "/uploadImage", s.fileDomain.UploadImage)
		router.POST(tokenAuthRouter, "/uploadAvatar", s.fileDomain.UploadAvatar)
	}

	// Admin API.
	adminRouter := s.router.Branch()
	adminRouter.Before(authVerifier.Middleware())
	adminRouter.Before(middleware.NewOnlyAdmin(s.userRepo).Middleware())
	{
		router.POST(adminRouter, "/verifyReview", s.reviewDomain.Verify)
	}

	// Public API.
	router.GET(s.router, "/getUser", s.userDomain.GetUser)
	router.GET(s.router, "/getLeaderboard", s.userDomain.GetLeaderboard)
	router.GET(s.router, "/getListLocation", s.locationDomain.GetList)
	router.GET(s.router, "/getLocation", s.locationDomain.Get)
	router.GET(s.router, "/getNearbyLocations", s.locationDomain.GetNearby)
	router.GET(s.router, "/getListReview", s.reviewDomain.GetList)
	router.GET(s.router, "/getReview", s.reviewDomain.Get)
	router.GET(s.router, "/getBadges", s.badgeDomain.GetBadges)
}
