package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/velomax/partner-client/internal/partnerapi"
	"github.com/velomax/partner-client/pkg/config"
	"github.com/velomax/partner-client/pkg/enums"
	pkgerrors "github.com/velomax/partner-client/pkg/errors"
	"github.com/velomax/partner-client/pkg/logger"
	"github.com/velomax/partner-client/pkg/redis"
	"github.com/velomax/partner-client/pkg/retry"
	"github.com/velomax/partner-client/pkg/session"
	"github.com/velomax/partner-client/pkg/store"
)

const usage = `usage: partnerctl <command> [flags]

commands:
  login         authenticate with phone and password (or -firebase-token)
  logout        end the session
  register      create a partner account
  whoami        show the cached session state
  profile       fetch the partner profile
  update        send a partial profile update (-json)
  bank          update bank details
  availability  set on/off-duty state
  status        advance an order through its delivery lifecycle
  history       list past deliveries
  earnings      show the payout summary for a period
  dashboard     show the landing snapshot
  upload        upload a verification document
  avatar        upload a profile photo
  report        file an issue against an order
`

func main() {
	logg := logger.New(logger.Options{ServiceName: "partnerctl"})

	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "partnerctl",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sessionStore, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		logg.Error(ctx, "failed to open session store", err)
		os.Exit(1)
	}
	defer closeStore()

	sess := session.New(sessionStore, logg)
	sess.OnChange(func(authenticated bool) {
		if authenticated {
			logg.Debug(ctx, "session established")
			return
		}
		logg.Debug(ctx, "session cleared")
	})
	client, err := partnerapi.New(cfg.API.BaseURL, sess,
		partnerapi.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		partnerapi.WithUploadHTTPClient(&http.Client{Timeout: cfg.API.UploadTimeout}),
		partnerapi.WithRetryPolicy(retry.Policy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			BaseDelay:   cfg.Retry.BaseDelay,
		}),
		partnerapi.WithLogger(logg),
	)
	if err != nil {
		logg.Error(ctx, "failed to create api client", err)
		os.Exit(1)
	}

	if err := run(ctx, client, sess, os.Args[1], os.Args[2:]); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, client *partnerapi.Client, sess *session.Session, command string, args []string) error {
	switch command {
	case "login":
		return runLogin(ctx, client, args)
	case "logout":
		return client.Logout(ctx)
	case "register":
		return runRegister(ctx, client, args)
	case "whoami":
		return runWhoami(ctx, sess)
	case "profile":
		user, err := client.GetProfile(ctx)
		if err != nil {
			return err
		}
		return printJSON(user)
	case "update":
		return runUpdate(ctx, client, args)
	case "bank":
		return runBank(ctx, client, args)
	case "availability":
		return runAvailability(ctx, client, args)
	case "status":
		return runStatus(ctx, client, args)
	case "history":
		return runHistory(ctx, client, args)
	case "earnings":
		return runEarnings(ctx, client, args)
	case "dashboard":
		dashboard, err := client.GetDashboard(ctx)
		if err != nil {
			return err
		}
		return printJSON(dashboard)
	case "upload":
		return runUpload(ctx, client, args)
	case "avatar":
		return runAvatar(ctx, client, args)
	case "report":
		return runReport(ctx, client, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func runLogin(ctx context.Context, client *partnerapi.Client, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	phone := fs.String("phone", "", "registered phone number")
	password := fs.String("password", "", "account password")
	firebaseToken := fs.String("firebase-token", "", "Firebase ID token (OTP flow)")
	_ = fs.Parse(args)

	var result *partnerapi.LoginResult
	var err error
	if *firebaseToken != "" {
		result, err = client.LoginWithFirebase(ctx, *phone, *firebaseToken)
	} else {
		result, err = client.Login(ctx, *phone, *password)
	}
	if err != nil {
		return err
	}

	fmt.Printf("logged in as %s\n", result.User.PhoneNumber)
	switch result.User.InitialRoute() {
	case enums.RouteDashboard:
		fmt.Println("account verified; dashboard unlocked")
	case enums.RouteAccountRejected:
		fmt.Println("account rejected; contact support")
	default:
		fmt.Println("verification pending; dashboard locked until approval")
	}
	return nil
}

func runRegister(ctx context.Context, client *partnerapi.Client, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	phone := fs.String("phone", "", "phone number")
	password := fs.String("password", "", "password")
	fullName := fs.String("name", "", "full name")
	city := fs.String("city", "", "operating city")
	vehicleType := fs.String("vehicle", "bike", "vehicle type: bike|scooter|bicycle|car")
	_ = fs.Parse(args)

	user, err := client.Register(ctx, partnerapi.RegisterParams{
		PhoneNumber: *phone,
		Password:    *password,
		FullName:    *fullName,
		City:        *city,
		VehicleType: *vehicleType,
	})
	if err != nil {
		return err
	}
	fmt.Printf("registered %s; verification pending\n", user.PhoneNumber)
	return nil
}

func runWhoami(ctx context.Context, sess *session.Session) error {
	if !sess.IsAuthenticated(ctx) {
		fmt.Println("not logged in")
		return nil
	}
	var user partnerapi.UserProfile
	if err := json.Unmarshal([]byte(sess.User(ctx)), &user); err != nil {
		return fmt.Errorf("cached session is unreadable: %w", err)
	}
	fmt.Printf("phone: %s\nrole: %s\nverification: %s\n", user.PhoneNumber, sess.Role(ctx), user.Verification())
	if sess.TokenExpired(ctx, time.Now()) {
		fmt.Println("token: expired (next API call will require login)")
	}
	return nil
}

func runUpdate(ctx context.Context, client *partnerapi.Client, args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	payload := fs.String("json", "", `partial update document, e.g. '{"deliveryBoyInfo.personalInfo.city":"Mysuru"}'`)
	_ = fs.Parse(args)

	var update partnerapi.ProfileUpdate
	if err := json.Unmarshal([]byte(*payload), &update); err != nil {
		return fmt.Errorf("-json must be a JSON object: %w", err)
	}
	user, err := client.UpdateProfile(ctx, update)
	if err != nil {
		return err
	}
	return printJSON(user)
}

func runBank(ctx context.Context, client *partnerapi.Client, args []string) error {
	fs := flag.NewFlagSet("bank", flag.ExitOnError)
	holder := fs.String("holder", "", "account holder name")
	account := fs.String("account", "", "account number")
	ifsc := fs.String("ifsc", "", "IFSC code")
	_ = fs.Parse(args)

	user, err := client.UpdateBankDetails(ctx, partnerapi.BankDetails{
		AccountHolder: *holder,
		AccountNumber: *account,
		IFSC:          *ifsc,
	})
	if err != nil {
		return err
	}
	return printJSON(user)
}

func runAvailability(ctx context.Context, client *partnerapi.Client, args []string) error {
	fs := flag.NewFlagSet("availability", flag.ExitOnError)
	rawStatus := fs.String("status", "available", "available|unavailable|on_delivery")
	lat := fs.Float64("lat", 0, "current latitude")
	lng := fs.Float64("lng", 0, "current longitude")
	_ = fs.Parse(args)

	status, err := enums.ParseAvailabilityStatus(*rawStatus)
	if err != nil {
		return err
	}
	var location *partnerapi.Location
	if *lat != 0 || *lng != 0 {
		location = &partnerapi.Location{Latitude: *lat, Longitude: *lng}
	}
	if err := client.UpdateAvailability(ctx, status, location); err != nil {
		return err
	}
	fmt.Printf("availability set to %s\n", status)
	return nil
}

func runStatus(ctx context.Context, client *partnerapi.Client, args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	orderID := fs.String("order", "", "order ID")
	rawStatus := fs.String("status", "", "assigned|accepted|picked_up|en_route|delivered|cancelled|returned")
	_ = fs.Parse(args)

	status, err := enums.ParseDeliveryStatus(*rawStatus)
	if err != nil {
		return err
	}
	if err := client.UpdateDeliveryStatus(ctx, *orderID, status); err != nil {
		return err
	}
	fmt.Printf("order %s marked %s\n", *orderID, status)
	return nil
}

func runHistory(ctx context.Context, client *partnerapi.Client, args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 20, "page size")
	from := fs.String("from", "", "start date (RFC3339)")
	to := fs.String("to", "", "end date (RFC3339)")
	_ = fs.Parse(args)

	params := partnerapi.HistoryParams{Page: *page, Limit: *limit}
	if *from != "" {
		parsed, err := time.Parse(time.RFC3339, *from)
		if err != nil {
			return fmt.Errorf("-from: %w", err)
		}
		params.From = &parsed
	}
	if *to != "" {
		parsed, err := time.Parse(time.RFC3339, *to)
		if err != nil {
			return fmt.Errorf("-to: %w", err)
		}
		params.To = &parsed
	}

	history, err := client.GetDeliveryHistory(ctx, params)
	if err != nil {
		return err
	}
	return printJSON(history)
}

func runEarnings(ctx context.Context, client *partnerapi.Client, args []string) error {
	fs := flag.NewFlagSet("earnings", flag.ExitOnError)
	rawPeriod := fs.String("period", "today", "today|week|month|all")
	_ = fs.Parse(args)

	period, err := enums.ParseEarningsPeriod(*rawPeriod)
	if err != nil {
		return err
	}
	summary, err := client.GetEarnings(ctx, period)
	if err != nil {
		return err
	}
	return printJSON(summary)
}

func runUpload(ctx context.Context, client *partnerapi.Client, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	file := fs.String("file", "", "path to the document file")
	rawType := fs.String("type", "", "aadhaar|pan|driving_license|vehicle_rc")
	_ = fs.Parse(args)

	docType, err := enums.ParseDocumentType(*rawType)
	if err != nil {
		return err
	}
	result, err := client.UploadDocument(ctx, *file, docType)
	if err != nil {
		return err
	}
	fmt.Printf("uploaded: %s\n", result.URL)
	return nil
}

func runAvatar(ctx context.Context, client *partnerapi.Client, args []string) error {
	fs := flag.NewFlagSet("avatar", flag.ExitOnError)
	file := fs.String("file", "", "path to the photo")
	_ = fs.Parse(args)

	result, err := client.UploadAvatar(ctx, *file)
	if err != nil {
		return err
	}
	fmt.Printf("uploaded: %s\n", result.URL)
	return nil
}

func runReport(ctx context.Context, client *partnerapi.Client, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	orderID := fs.String("order", "", "order ID")
	issue := fs.String("issue", "", "short issue summary")
	description := fs.String("description", "", "details")
	_ = fs.Parse(args)

	if err := client.ReportIssue(ctx, partnerapi.IssueReport{
		OrderID:     *orderID,
		Issue:       *issue,
		Description: *description,
	}); err != nil {
		return err
	}
	fmt.Println("issue reported")
	return nil
}

func buildStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreBackendRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return store.NewRedis(client), func() { _ = client.Close() }, nil
	case config.StoreBackendMemory:
		return store.NewMemory(), func() {}, nil
	default:
		fileStore, err := store.NewFile(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return fileStore, func() {}, nil
	}
}

func printJSON(value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

func printError(err error) {
	typed := pkgerrors.As(err)
	if typed == nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "error (%s): %s\n", typed.Kind(), typed.Message())
	for _, detail := range typed.Details() {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", detail.Field, detail.Message)
	}
	if pkgerrors.NeedsLogin(err) {
		fmt.Fprintln(os.Stderr, "run 'partnerctl login' and try again")
	}
}
