// Package app wires the daemon together: playlist acquisition, song change
// detection, lyrics fetching, and the playback sync loop.
package app

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"player-backend/internal/config"
	"player-backend/internal/ipc"
	"player-backend/internal/lyrics"
	"player-backend/internal/meta"
	"player-backend/internal/player"
	"player-backend/internal/playlist"
	"player-backend/internal/refresh"
	"player-backend/pkg/ai"
	"player-backend/pkg/ai/gemini"
	"player-backend/pkg/ai/openai"
	"player-backend/pkg/github"
	"player-backend/pkg/lrclib"
	"player-backend/pkg/lyricsource"
	"player-backend/pkg/playlistcache"
	"player-backend/pkg/redis"
	"player-backend/pkg/sidecar"
	"player-backend/pkg/translate"
)

// App is the daemon.
type App struct {
	cfg            *config.Config
	ipcServer      *ipc.Server
	lyricsProvider *lyrics.Provider
	resolver       *meta.Resolver
	playlist       *playlist.Playlist
	playlistSource string
	translator     lyrics.Translator
	refresher      *refresh.Controller

	currentSong string
	mutex       sync.Mutex

	schedulerMutex  sync.Mutex
	schedulerCancel context.CancelFunc
}

// New builds the daemon from config. Optional collaborators (Redis, the AI
// resolver, translation, the refresh controller) degrade to nil when not
// configured or unreachable.
func New(cfg *config.Config) *App {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	a := &App{
		cfg:       cfg,
		ipcServer: ipc.NewServer(cfg.App.SocketPath),
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		client, err := redis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable, using file cache only")
		} else {
			redisClient = client
		}
	}

	a.loadPlaylist(redisClient)
	a.buildLyricsPipeline()

	if cfg.Translate.Enabled {
		translator, err := translate.NewClient(cfg.Translate.SecretID, cfg.Translate.SecretKey)
		if err != nil {
			log.Warn().Err(err).Msg("Translation unavailable")
		} else {
			a.translator = translator
		}
	}

	if cfg.App.RefreshProcess != "" {
		a.refresher = refresh.NewController(cfg.App.RefreshProcess)
	}

	return a
}

// loadPlaylist runs the acquisition chain: cache, GitHub listing, static
// manifest, empty.
func (a *App) loadPlaylist(redisClient *redis.Client) {
	cfg := a.cfg
	cache := playlistcache.New(redisClient, cfg.App.CacheDir, cfg.Playlist.CacheTTL)

	var sources []playlist.Source
	cacheKey := ""

	if cfg.Playlist.Owner != "" && cfg.Playlist.Repo != "" {
		githubSource := playlist.NewGitHubSource(
			github.NewClient(cfg.Playlist.Token),
			cfg.Playlist.Owner, cfg.Playlist.Repo, cfg.Playlist.Path, cfg.Playlist.Ref)
		cacheKey = githubSource.CacheKey()
		sources = append(sources, playlist.NewCacheSource(cache, cacheKey), githubSource)
	}
	if cfg.Playlist.ManifestPath != "" {
		sources = append(sources, playlist.NewManifestSource(cfg.Playlist.ManifestPath))
	}

	loader := playlist.NewLoader(cache, cacheKey, sources...)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a.playlist, a.playlistSource = loader.Load(ctx)
}

func (a *App) buildLyricsPipeline() {
	cfg := a.cfg

	var providers []lyricsource.LyricsAPI
	if cfg.Lyrics.SidecarDir != "" {
		sidecarClient, err := sidecar.New(cfg.Lyrics.SidecarDir)
		if err != nil {
			log.Warn().Err(err).Msg("Sidecar provider unavailable")
		} else {
			providers = append(providers, sidecarClient)
		}
	}
	providers = append(providers, lrclib.NewClient())

	a.lyricsProvider = lyrics.NewProvider(cfg.App.CacheDir, lyricsource.NewManager(providers))

	var aiClient ai.AiInterface
	if cfg.AI.APIKey != "" {
		if cfg.AI.ModuleName == "gemini" {
			aiClient = gemini.NewGemini(cfg.AI.APIKey, "")
		} else {
			aiClient = openai.NewOpenAi(cfg.AI.APIKey, cfg.AI.ModuleName, cfg.AI.BaseURL)
		}
	}
	a.resolver = meta.NewResolver(aiClient)
}

// Run starts the IPC server and polls the player until the process dies.
func (a *App) Run() {
	if err := os.MkdirAll(a.cfg.App.CacheDir, 0755); err != nil {
		log.Fatal().Err(err).Str("cache_dir", a.cfg.App.CacheDir).Msg("Failed to create cache directory")
	}
	log.Info().Str("cache_dir", a.cfg.App.CacheDir).Msg("Cache directory ready")

	if err := a.ipcServer.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start IPC server")
	}
	defer a.ipcServer.Close()

	if a.refresher != nil {
		a.refresher.Start()
		defer a.refresher.Stop()
	}

	if a.playlist.Len() > 0 {
		log.Info().
			Int("tracks", a.playlist.Len()).
			Str("source", a.playlistSource).
			Msg("Playlist ready")
	}

	ticker := time.NewTicker(a.cfg.App.CheckInterval)
	defer ticker.Stop()

	log.Info().Msg("Starting player check loop...")
	for {
		a.updateSongInfo()
		<-ticker.C
	}
}

func (a *App) updateSongInfo() {
	display, err := player.GetCurrentSong()
	if err != nil {
		a.ipcServer.Broadcast("No music playing...")
		return
	}

	a.mutex.Lock()
	if display == a.currentSong {
		a.mutex.Unlock()
		return
	}
	log.Info().Msg("-----------------------------------------------------")
	log.Info().Str("song", display).Msg("New song detected")
	a.currentSong = display
	a.mutex.Unlock()

	a.ipcServer.Broadcast(fmt.Sprintf("... Searching for lyrics for %s ...", display))

	info := a.resolveSong(display)
	if !info.IsSong {
		log.Info().Str("display", display).Msg("Not a song, mirroring player state")
		a.stopSyncLoop()
		a.ipcServer.Broadcast(display)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lyricsText, err := a.lyricsProvider.GetLyrics(ctx, info)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get lyrics")
		a.stopSyncLoop()
		a.ipcServer.Broadcast(fmt.Sprintf("Error getting lyrics: %v", err))
		return
	}

	a.startSyncLoop(lyricsText, player.GetCurrentPlayTime)
}

// resolveSong enriches the player's display string with playlist metadata
// when the track is known, falling back to the resolver otherwise.
func (a *App) resolveSong(display string) meta.SongInfo {
	if idx := a.playlist.Find(display); idx >= 0 {
		track := a.playlist.Track(idx)
		if track.Title != "" {
			info := meta.SongInfo{
				Title:    track.Title,
				Artist:   track.Artist,
				Duration: track.Duration,
				IsSong:   true,
			}
			if info.Duration == 0 {
				info.Duration = player.GetCurrentDuration()
			}
			log.Info().Str("title", info.Title).Str("artist", info.Artist).Msg("Track matched in playlist")
			return info
		}
	}

	info := a.resolver.Resolve(display)
	if info.IsSong && info.Duration == 0 {
		info.Duration = player.GetCurrentDuration()
	}
	return info
}

func (a *App) stopSyncLoop() {
	a.schedulerMutex.Lock()
	defer a.schedulerMutex.Unlock()
	if a.schedulerCancel != nil {
		a.schedulerCancel()
		a.schedulerCancel = nil
	}
}

// startSyncLoop replaces any running sync loop with a fresh one over the
// given LRC text. Each loop owns its own cursor, so a track change is also a
// cursor reset.
func (a *App) startSyncLoop(lrc string, getCurrentTime func() float64) {
	a.schedulerMutex.Lock()
	defer a.schedulerMutex.Unlock()

	if a.schedulerCancel != nil {
		log.Info().Msg("Stopping previous sync loop")
		a.schedulerCancel()
		a.schedulerCancel = nil

		// Leave the old goroutine a moment to observe the cancellation.
		time.Sleep(50 * time.Millisecond)
	}

	lines := lyrics.Parse(lrc)
	if len(lines) == 0 {
		log.Warn().Msg("No timed lines found, broadcasting raw text")
		a.ipcServer.Broadcast(lrc)
		return
	}
	lines = lyrics.Bilingual(lines, a.translator)

	log.Info().Int("lines_count", len(lines)).Msg("Starting sync loop")

	ctx, cancel := context.WithCancel(context.Background())
	a.schedulerCancel = cancel

	go a.runSyncLoop(ctx, lines, getCurrentTime)
}

func (a *App) runSyncLoop(ctx context.Context, lines []lyrics.Line, getCurrentTime func() float64) {
	defer func() {
		a.schedulerMutex.Lock()
		select {
		case <-ctx.Done():
			// Cancelled: a newer loop owns schedulerCancel now.
		default:
			// Natural end of the song, release the handle.
			a.schedulerCancel = nil
		}
		a.schedulerMutex.Unlock()
		log.Info().Msg("Sync loop stopped")
	}()

	cursor := lyrics.NewCursor(lines)
	offset := a.cfg.App.LyricOffset
	lastTime := lines[len(lines)-1].Time

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			currentTime := getCurrentTime()
			if currentTime < 0 {
				log.Warn().Float64("player_time", currentTime).Msg("Invalid player time")
				continue
			}

			index, changed := cursor.Advance(currentTime + offset)
			if changed {
				if index >= 0 {
					line := lines[index]
					log.Info().
						Int("index", index).
						Float64("player_time", currentTime).
						Float64("line_time", line.Time).
						Str("line", line.Text).
						Msg("Line transition")
					a.ipcServer.Broadcast(line.Text)
				} else {
					// Back before the first line, e.g. after a seek to 0.
					a.ipcServer.Broadcast("♪ ...")
				}
				a.notifyRenderer()
			}

			// The last line has no end time; close out well past it.
			if currentTime > lastTime+5.0 {
				log.Info().
					Float64("current_time", currentTime).
					Float64("last_line_time", lastTime).
					Msg("Song finished")
				a.ipcServer.Broadcast("♪ fin ♪")
				a.notifyRenderer()
				return
			}

		case <-ctx.Done():
			log.Info().Msg("Sync loop cancelled")
			return
		}
	}
}

func (a *App) notifyRenderer() {
	if a.refresher == nil {
		return
	}
	if err := a.refresher.Notify(); err != nil {
		log.Debug().Err(err).Msg("Renderer refresh failed")
	}
}
