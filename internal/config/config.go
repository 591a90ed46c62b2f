package config // package config loads application configuration from environment variables

import (
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables
    "strconv"  // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for ports and costs.
type Config struct {
    Env           string // application environment (e.g. "dev", "prod")
    Port          string // HTTP port to listen on
    DBUser        string // database username
    DBPass        string // database password (optional)
    DBHost        string // database host address
    DBPort        string // database port number
    DBName        string // database name
    BcryptCost    int    // bcrypt cost for password hashing
    FrontendURL   string // base URL of the web client, target of verification redirects
    PublicBaseURL string // externally reachable base URL of this server, used in email links
    SMTPHost      string // SMTP relay host
    SMTPPort      int    // SMTP relay port
    SMTPUser      string // SMTP account (also the From address)
    SMTPPass      string // SMTP password or app-specific password
    SupportEmail  string // destination for support-form messages
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  SMTP settings are
// optional so that the server can run without a mail relay during
// development; the mail consumer logs delivery failures instead of crashing.
func Load() Config {
    return Config{
        Env:           must("APP_ENV"),         // environment (dev/test/prod)
        Port:          must("APP_PORT"),        // port to bind the HTTP server
        DBUser:        must("DB_USER"),         // database user
        DBPass:        os.Getenv("DB_PASS"),    // database password (empty allowed)
        DBHost:        must("DB_HOST"),         // database host
        DBPort:        must("DB_PORT"),         // database port
        DBName:        must("DB_NAME"),         // database name
        BcryptCost:    mustInt("BCRYPT_COST"),  // bcrypt cost factor
        FrontendURL:   must("FRONTEND_URL"),    // client base URL for the /verified landing page
        PublicBaseURL: must("PUBLIC_BASE_URL"), // server base URL embedded in verification links
        SMTPHost:      os.Getenv("SMTP_HOST"),
        SMTPPort:      atoi(getenv("SMTP_PORT", "587")),
        SMTPUser:      os.Getenv("SMTP_USER"),
        SMTPPass:      os.Getenv("SMTP_PASS"),
        SupportEmail:  getenv("SUPPORT_EMAIL", "support@locmanager.com"),
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
