package handlers

import (
	"bytes"
	"crypto/sha1"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/sundash/sundash/pkg/data"
	"github.com/sundash/sundash/pkg/meta"
	"github.com/sundash/sundash/pkg/metrics"
	"github.com/sundash/sundash/pkg/sunset"
	"github.com/sundash/sundash/pkg/timetricks"
	"github.com/sundash/sundash/pkg/visualize"
	"golang.org/x/crypto/pbkdf2"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const (
	sessionName       = "good-light"
	sessionLastViewed = "last-viewed-referrer"
	userID            = "userid"
	// See https://developer.chrome.com/blog/cookie-max-age-expires.
	defaultMaxAge = 60 * 60 * 24 * 400 // 400 days in seconds.
)

var (
	store = &sessions.CookieStore{
		Codecs: securecookie.CodecsFromPairs(
			getSessionKey(),
			getEncryptionKey(),
		),
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   defaultMaxAge,
			Secure:   true,
			HttpOnly: true,
		},
	}
	db = data.PostgresFromEnvOrDie()
)

func init() {
	store.MaxAge(defaultMaxAge)
}

type TemplateInput struct {
	PresentationElements []PresentationElement
	NextStart            string
	PrevStart            string
	Name                 string
	PlaceName            string
}

type PresentationElement struct {
	Date      string
	GoodTimes []meta.GoodTime
	SunImage  template.HTML
}

// makeServerSideIndex serves a good light page fully rendered on the server.
func makeServerSideIndex(content embed.FS) http.HandlerFunc {
	indexTemplate := template.Must(template.ParseFS(content, "static/index.template.html"))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, _ := store.Get(r, sessionName)
		metrics.ObserveUserRequest(session.Values[userID])
		session.Values[sessionLastViewed] = r.URL.String()
		if err := session.Save(r, w); err != nil {
			log.Println("save session err", err)
		}

		date := time.Now()
		startString := r.FormValue("start")
		if startString != "" {
			parsed, err := time.Parse(time.RFC3339, startString)
			if err != nil {
				log.Printf("Failed to read time %q: %v", startString, err)
			} else {
				date = parsed
			}
		}

		opts, user, place := preferencesFromSession(session)
		date = date.In(place.Location)

		// Compute sun events with a day of padding on each side so the
		// embedded day length curve has no gaps at the edges.
		days := fetchSunDays(place, date.AddDate(0, 0, -1), int(forecastLength/day)+2)
		goodTimes := meta.GoodTimesWithOptions(meta.Conditions{Days: days}, opts)
		sunimages := visualize.NewDaylight(days)

		presElems := goodTimesToPresentationElements(sunimages, goodTimes)

		tinput := TemplateInput{
			PresentationElements: presElems,
			NextStart:            date.Add(forecastLength).Format(time.RFC3339),
			PrevStart:            date.Add(-1 * forecastLength).Format(time.RFC3339),
			PlaceName:            placeName(user),
		}
		if user != nil {
			tinput.Name = user.Name
		}

		w.Header().Add("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		if err := indexTemplate.Execute(w, tinput); err != nil {
			log.Printf("Failed to execute template: %v", err)
		}
	})
}

func placeName(user *data.User) string {
	if user != nil && user.PlaceName != "" {
		return user.PlaceName
	}
	return "Paris"
}

func imgToString(img *visualize.Daylight, t time.Time) string {
	img.SetDate(t)
	var b bytes.Buffer
	if _, err := img.Encode(&b); err != nil {
		log.Printf("Failed to draw day for %s: %v", t, err)
	}
	return b.String()
}

func goodTimesToPresentationElements(sunimages *visualize.Daylight, goodTimes []meta.GoodTime) []PresentationElement {
	var f func(result []PresentationElement, goodTimes []meta.GoodTime) []PresentationElement
	f = func(result []PresentationElement, goodTimes []meta.GoodTime) []PresentationElement {
		if len(goodTimes) == 0 {
			return result
		}

		resultLen := len(result)
		gt := goodTimes[0]
		gt.UpdatePrettyTime()

		if len(result) != 0 && result[resultLen-1].Date == timetricks.Day(gt.Time) {
			// There is already an entry in the result that corresponds to the
			// same day as the next time we're entering.
			result[resultLen-1].GoodTimes = append(result[resultLen-1].GoodTimes, gt)
		} else {
			// Normal case.
			result = append(result, PresentationElement{
				Date:      timetricks.Day(gt.Time),
				GoodTimes: []meta.GoodTime{gt},
				SunImage:  template.HTML(imgToString(sunimages, gt.Time)),
			})
		}

		return f(result, goodTimes[1:])
	}

	return f(nil, goodTimes)
}

// preferencesFromSession recovers the session's saved user, the analysis
// options, and the place to compute events for. A missing or unknown user
// simply gets the defaults.
func preferencesFromSession(s *sessions.Session) (meta.Options, *data.User, sunset.Place) {
	opts := meta.Options{}
	place := sunset.Paris

	id, ok := s.Values[userID]
	if !ok {
		return opts, nil, place
	}

	// Note the db lookup can fail here, and that's
	// fine. We'll just use default options.
	var user data.User
	if r := db.First(&user, id); r.Error != nil {
		log.Printf("Failed to find user %v: %v", id, r.Error)
		return opts, nil, place
	}

	// Log the time since we last saw the user.
	if !user.LastSeen.IsZero() {
		sinceLastSeen := time.Since(user.LastSeen)
		log.Printf("User %d (%q) was last seen %s ago", user.ID, user.Name, sinceLastSeen)
	}
	user.LastSeen = time.Now()
	db.Save(&user)

	if user.GoldenSpan != nil {
		span := time.Duration(*user.GoldenSpan) * time.Minute
		opts.GoldenSpan = &span
	}
	if user.Lat != nil && user.Long != nil {
		loc := time.UTC
		if user.Timezone != "" {
			if parsed, err := time.LoadLocation(user.Timezone); err == nil {
				loc = parsed
			} else {
				log.Printf("User %d has bad time zone %q: %v", user.ID, user.Timezone, err)
			}
		}
		place = sunset.Place{Lat: *user.Lat, Long: *user.Long, Location: loc}
	}

	return opts, &user, place
}

func makeConfigPlace(redirectPrefix string, content embed.FS) http.HandlerFunc {
	configTemplate := template.Must(template.ParseFS(content, "static/config.template.html"))

	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := store.Get(r, sessionName)
		metrics.ObserveUserRequest(session.Values[userID])

		if r.Method == "GET" {
			session.Save(r, w)
			opts, user, place := preferencesFromSession(session)
			defaultSpan := ptr(40 * time.Minute)
			opts.DefaultGoldenSpan = defaultSpan
			if err := configTemplate.Execute(w, map[string]any{
				"Options": opts,
				"User":    user,
				"Place":   place,
			}); err != nil {
				log.Printf("Failed to write configTemplate: %v", err)
			}
			return
		}
		// The remainder of this function assumes method is POST.
		if r.Method != "POST" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		// Parse the form data.
		if err := r.ParseForm(); err != nil {
			msg := fmt.Sprintf("Failed to parse form: %v", err)
			log.Println(msg)
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, msg)
			return
		}

		var user data.User
		if id, ok := session.Values[userID].(uint); ok {
			// Read-modify-write if the user provided an ID.
			// Otherwise, one will be generated with db.Save later.
			db.First(&user, id)
		}
		if f, err := strconv.ParseFloat(r.PostForm.Get("lat"), 64); err == nil {
			user.Lat = &f
		} else {
			user.Lat = nil
		}
		if f, err := strconv.ParseFloat(r.PostForm.Get("long"), 64); err == nil {
			user.Long = &f
		} else {
			user.Long = nil
		}
		if mins, err := strconv.ParseInt(r.PostForm.Get("golden_span"), 10, 64); err == nil {
			user.GoldenSpan = &mins
		} else {
			user.GoldenSpan = nil
		}

		// Only keep a time zone that actually loads.
		tz := r.PostForm.Get("timezone")
		if tz != "" {
			if _, err := time.LoadLocation(tz); err != nil {
				log.Printf("Ignoring bad time zone %q: %v", tz, err)
				tz = ""
			}
		}
		user.Timezone = tz
		user.PlaceName = r.PostForm.Get("place_name")

		// Log the time since the last update.
		if user.UpdatedAt.IsZero() {
			log.Printf("User %d (%q) has never been updated", user.ID, user.Name)
		} else {
			sinceLastUpdate := time.Now().Sub(user.UpdatedAt)
			log.Printf("User %d (%q) was last updated %s ago", user.ID, user.Name, sinceLastUpdate)
		}

		// Set the LastSeen column to the current time.
		user.LastSeen = time.Now()
		user.Name = r.PostForm.Get("name")
		if tx := db.Save(&user); tx.Error != nil {
			msg := fmt.Sprintf("Failed to save preferences: %v", tx.Error)
			log.Println(msg)
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, msg)
			return
		}
		session.Values[userID] = user.ID
		session.Values["name"] = user.Name
		session.Save(r, w)

		// Redirect to whatever they saw last, or the index.
		referredFrom, ok := session.Values[sessionLastViewed].(string)
		if !ok || referredFrom == "/config" {
			referredFrom = "/"
		}
		redirectTo := pathJoinPreservePrefix(redirectPrefix, referredFrom)
		http.Redirect(w, r, redirectTo, http.StatusFound)
	}
}

func pathJoinPreservePrefix(prefix string, suffix string) string {
	trimmedPrefix := path.Join(prefix, "")
	result := path.Join(prefix, suffix)
	if result == trimmedPrefix {
		return prefix
	}
	return result
}

// getSessionKey returns a key to authenticate session cookies defined in the
// environment.
// If it is not set, it uses a compile-time default.
func getSessionKey() []byte {
	defaultKey := []byte("deadbeef")
	if key := os.Getenv("SESSION_KEY"); key != "" {
		return []byte(key)
	} else {
		return defaultKey
	}
}

func getEncryptionKey() []byte {
	password := "deadbeef"
	if fromEnv := os.Getenv("ENCRYPTION_KEY"); fromEnv != "" {
		password = fromEnv
	}
	return pbkdf2.Key([]byte(password), []byte{}, 4096, 32, sha1.New)
}

func ptr[T any](t T) *T {
	return &t
}
