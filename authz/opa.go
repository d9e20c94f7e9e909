package authz

import (
	"context"
	_ "embed"

	"github.com/open-policy-agent/opa/v1/rego"
	"go.uber.org/zap"

	"github.com/Porx312/ProjectD/logger"
)

// Request is the input document handed to the policy.
type Request struct {
	Subject string     `json:"subject"`
	Owner   string     `json:"owner"`
	Action  Permission `json:"action"`
}

// Evaluator decides whether a request is allowed.
type Evaluator interface {
	Allowed(ctx context.Context, req Request) (bool, error)
}

//go:embed policy.rego
var policy string

// OpaEvaluator evaluates requests against the embedded rego policy.
type OpaEvaluator struct {
	query rego.PreparedEvalQuery
	l     *zap.Logger
}

var _ Evaluator = (*OpaEvaluator)(nil)

func NewOpaEvaluator(l *zap.Logger) (*OpaEvaluator, error) {
	l = logger.Or(l).Named("opa")
	r := rego.New(
		rego.Query("data.projectd.authz.allow"),
		rego.Module("projectd.authz", policy),
	)
	query, err := r.PrepareForEval(context.Background())
	if err != nil {
		l.Error("failed to prepare query", zap.Error(err))
		return nil, err
	}
	return &OpaEvaluator{query: query, l: l}, nil
}

func (e *OpaEvaluator) Allowed(ctx context.Context, req Request) (bool, error) {
	rs, err := e.query.Eval(ctx, rego.EvalInput(req))
	if err != nil {
		e.l.Error("eval", zap.Error(err))
		return false, err
	}
	e.l.Debug("eval",
		zap.String("action", string(req.Action)),
		zap.String("subject", req.Subject),
		zap.String("owner", req.Owner),
		zap.Bool("allowed", rs.Allowed()))
	return rs.Allowed(), nil
}
