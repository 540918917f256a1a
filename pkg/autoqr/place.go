package autoqr

import "fmt"

// Place validates the target document under policy and resolves the QR
// rectangle for req. Under strict policy a failed paper check aborts before
// any rectangle is computed. The findings of both steps are returned in the
// result, validator findings first.
func Place(req PlacementRequest, policy ValidationPolicy, pages []PageGeometry) (PlacementResult, error) {
	if err := req.Check(); err != nil {
		return PlacementResult{}, err
	}
	if req.PageIndex < 1 || req.PageIndex > len(pages) {
		return PlacementResult{}, pageOutOfRange(req.PageIndex, len(pages))
	}

	policy.TargetPage = req.PageIndex
	findings, err := Validate(pages, policy)
	if err != nil {
		return PlacementResult{Findings: findings, PageIndex: req.PageIndex}, err
	}

	result, err := Resolve(req, pages[req.PageIndex-1])
	if err != nil {
		return PlacementResult{}, fmt.Errorf("failed to resolve placement: %w", err)
	}

	result.Findings = append(findings, result.Findings...)
	return result, nil
}
