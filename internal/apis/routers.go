package apis

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mugiliam/common/hatchrbac"
	"github.com/mugiliam/common/httpx"
	"github.com/zkmarket/mintworkersrv/internal/assembler"
	"github.com/zkmarket/mintworkersrv/internal/catalog"
	"github.com/zkmarket/mintworkersrv/internal/common"
	"github.com/zkmarket/mintworkersrv/internal/db"
	"github.com/zkmarket/mintworkersrv/internal/events"
	"github.com/zkmarket/mintworkersrv/internal/finality"
	"github.com/zkmarket/mintworkersrv/internal/ledger"
	"github.com/zkmarket/mintworkersrv/internal/metadata"
	"github.com/zkmarket/mintworkersrv/internal/reservation"
	"github.com/zkmarket/mintworkersrv/internal/submitter"
	"github.com/zkmarket/mintworkersrv/pkg/types"
)

// Dependencies are the process-wide collaborators the handlers share. The
// catalog store is request-scoped (see LoadScopedDB) unless Store is set,
// which pins every handler to one store instance.
type Dependencies struct {
	Assembler    *assembler.Assembler
	Connector    ledger.Connector
	Metadata     *metadata.Assembler
	Events       events.Sink
	Reservations reservation.Client
	Resolver     *finality.Resolver
	Store        catalog.Store
}

var deps Dependencies

func Init(d Dependencies) {
	deps = d
}

// Ready reports whether this worker can still produce valid submissions. A
// degraded assembler means the compiled circuits drifted from the hashes this
// build expects; the readiness probe turns unavailable and the deployment
// restarts the process with a fresh circuit cache.
func Ready() bool {
	return deps.Assembler == nil || !deps.Assembler.Degraded()
}

func store(ctx context.Context) catalog.Store {
	if deps.Store != nil {
		return deps.Store
	}
	return db.DB(ctx)
}

func controller(ctx context.Context) *submitter.Controller {
	return submitter.NewController(store(ctx), deps.Assembler, deps.Connector, deps.Metadata, deps.Events, deps.Reservations)
}

func reconciler(ctx context.Context) *finality.Reconciler {
	return finality.NewReconciler(store(ctx), deps.Connector, deps.Metadata, deps.Resolver)
}

var jobHandlers = []httpx.RoleAuthorizedHandlerParam{
	{
		Method:  http.MethodPost,
		Path:    "/jobs",
		Handler: submitJob,
		Op:      hatchrbac.Create,
	},
	{
		Method:  http.MethodGet,
		Path:    "/entries/{objectId}",
		Handler: getEntry,
		Op:      hatchrbac.Read,
	},
	{
		Method:  http.MethodGet,
		Path:    "/transactions/{jobId}",
		Handler: getTransactionRecord,
		Op:      hatchrbac.Read,
	},
	{
		Method:  http.MethodPost,
		Path:    "/transactions/resolve",
		Handler: resolveTransaction,
		Op:      hatchrbac.Update,
	},
}

func Router(r chi.Router) {
	r.Use(LoadJobContext)
	//TODO: Implement authentication
	for _, handler := range jobHandlers {
		r.Method(handler.Method, handler.Path, httpx.WrapHttpRsp(handler.Handler))
	}
}

// LoadJobContext stamps every request with a job id (taken from the client
// header when present) and the target network query parameter, so downstream
// log lines correlate.
func LoadJobContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		jobId := r.Header.Get("X-Job-Id")
		if jobId == "" {
			jobId = uuid.New().String()
		}
		ctx = common.SetJobIdInContext(ctx, jobId)
		if network := r.URL.Query().Get("network"); network != "" {
			ctx = common.SetNetworkInContext(ctx, types.Network(network))
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
