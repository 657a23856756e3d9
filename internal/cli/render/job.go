package render

import (
	"fmt"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/evm-coprocessor/copro/internal/domain/config"
	"github.com/evm-coprocessor/copro/internal/domain/models"
	"github.com/evm-coprocessor/copro/internal/usecase"
	"github.com/fatih/color"
	"github.com/samber/lo"
)

var labelStyle = color.New(color.Faint)

// JobRenderer renders job submissions, watcher passes and the signer address
type JobRenderer struct {
	out     io.Writer
	network *config.Network
}

// NewJobRenderer creates a new job renderer
func NewJobRenderer(out io.Writer, network *config.Network) *JobRenderer {
	return &JobRenderer{out: out, network: network}
}

func (r *JobRenderer) field(name string, value any) {
	fmt.Fprintf(r.out, "  %s %v\n", labelStyle.Sprintf("%-10s", name+":"), value)
}

// RenderSubmission renders the newJob transaction and, when waited for, its receipt
func (r *JobRenderer) RenderSubmission(submission *models.JobSubmission) error {
	tx := submission.Transaction
	fmt.Fprintln(r.out, FormatSuccess("Job submitted to "+submission.Contract))
	r.field("tx", tx.Hash().Hex())
	r.field("nonce", tx.Nonce())
	r.field("gas", tx.Gas())
	if tx.Type() == types.DynamicFeeTxType {
		r.field("fee cap", tx.GasFeeCap())
		r.field("tip cap", tx.GasTipCap())
	} else {
		r.field("gas price", tx.GasPrice())
	}
	r.field("data", fmt.Sprintf("%#x", tx.Data()))
	if r.network != nil {
		if link := explorerLink(r.network.ExplorerURL, "tx", tx.Hash().Hex()); link != "" {
			r.field("explorer", link)
		}
	}

	if receipt := submission.Receipt; receipt != nil {
		r.field("block", receipt.BlockNumber)
		r.field("gas used", receipt.GasUsed)
		if len(submission.JobIDs) > 0 {
			r.field("job ids", lo.Map(submission.JobIDs, func(id *big.Int, _ int) string { return id.String() }))
		}
	}
	return nil
}

// SubmissionOutput is the structured form of a job submission. Without a
// receipt it is the transaction itself.
func SubmissionOutput(submission *models.JobSubmission) any {
	if submission.Receipt == nil {
		return submission.Transaction
	}
	return struct {
		Transaction *types.Transaction `json:"transaction"`
		Receipt     *types.Receipt     `json:"receipt"`
		JobIDs      []string           `json:"jobIds"`
	}{
		Transaction: submission.Transaction,
		Receipt:     submission.Receipt,
		JobIDs:      lo.Map(submission.JobIDs, func(id *big.Int, _ int) string { return id.String() }),
	}
}

// RenderSync renders one watcher pass
func (r *JobRenderer) RenderSync(result *models.SyncResult) error {
	if len(result.Jobs) == 0 {
		fmt.Fprintf(r.out, "%s no new jobs in blocks %d-%d\n", labelStyle.Sprint("·"), result.FromBlock, result.ToBlock)
		return nil
	}

	fmt.Fprintf(r.out, "Blocks %d-%d: %d job(s)\n", result.FromBlock, result.ToBlock, len(result.Jobs))
	for _, callback := range result.Callbacks {
		if callback.Status == models.CallbackStatusOK {
			fmt.Fprintf(r.out, "  ✅ job %d answered %q at nonce %d (%s)\n", callback.JobID, callback.Result, callback.Nonce, callback.TxHash)
			continue
		}
		fmt.Fprintf(r.out, "  %s\n", FormatWarning(fmt.Sprintf("job %d: %s: %s", callback.JobID, callback.Status, callback.Message)))
	}
	return nil
}

// RenderSigner renders the signer address
func (r *JobRenderer) RenderSigner(result *usecase.ShowSignerResult) error {
	fmt.Fprintln(r.out, result.Address)
	return nil
}
