package plugin

import (
	"context"
	"fmt"

	"player-economy/internal/command"
	"player-economy/internal/domain"
	"player-economy/internal/errors"
	"player-economy/internal/service"
)

func (e *Economy) commands() []command.Command {
	return []command.Command{
		{
			Name:        "balance",
			Description: "Check yours or another player's balance.",
			Overloads: []command.Overload{{
				Params:  []command.Param{command.OptionalTarget("player")},
				Handler: e.balanceCommand,
			}},
		},
		{
			Name:        "pay",
			Description: "Pay another player a specified amount.",
			Overloads: []command.Overload{{
				Params:  []command.Param{command.Target("player"), command.Integer("amount")},
				Handler: e.payCommand,
			}},
		},
		{
			Name:            "update-balance",
			Description:     "Update the balance of a player.",
			PermissionLevel: domain.PermissionOperator,
			Overloads: []command.Overload{{
				Params: []command.Param{
					command.Enum("operation", domain.Operations()...),
					command.Target("player"),
					command.Integer("amount"),
				},
				Handler: e.updateBalanceCommand,
			}},
		},
	}
}

func (e *Economy) balanceCommand(ctx context.Context, inv *command.Invocation) (*command.Result, error) {
	targets, hasSelector := inv.Args.Targets("player")

	result, err := e.balances.Query(ctx, &service.BalanceRequest{
		Origin:      inv.Origin,
		Targets:     targets,
		HasSelector: hasSelector,
	})
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("§7Your current balance is §a$%d.§r", result.Balance)
	if !result.Self {
		message = fmt.Sprintf("§u%s's§7 current balance is §a$%d.§r", result.Target, result.Balance)
	}

	return &command.Result{
		Message: message,
		Fields: map[string]any{
			"target":  result.Target,
			"balance": result.Balance,
		},
	}, nil
}

func (e *Economy) payCommand(ctx context.Context, inv *command.Invocation) (*command.Result, error) {
	source, ok := inv.Origin.Player()
	if !ok {
		return nil, errors.ErrPayOriginNotPlayer
	}

	targets, _ := inv.Args.Targets("player")
	result, err := e.transfers.Pay(ctx, &service.PayRequest{
		Source:  source,
		Targets: targets,
		Amount:  inv.Args.Number("amount"),
	})
	if err != nil {
		return nil, err
	}

	return &command.Result{
		Message: fmt.Sprintf("§7You have paid §a$%d §7to §u%s.§r", result.Amount, result.Target),
		Fields: map[string]any{
			"source":        result.Source,
			"sourceBalance": result.SourceBalance,
			"target":        result.Target,
			"targetBalance": result.TargetBalance,
		},
	}, nil
}

func (e *Economy) updateBalanceCommand(ctx context.Context, inv *command.Invocation) (*command.Result, error) {
	op, err := domain.ParseOperation(inv.Args.String("operation"))
	if err != nil {
		return nil, err
	}

	targets, _ := inv.Args.Targets("player")
	result, err := e.adjustments.Update(ctx, &service.AdjustRequest{
		Operation: op,
		Targets:   targets,
		Amount:    inv.Args.Number("amount"),
	})
	if err != nil {
		return nil, err
	}

	// The count covers every resolved player; failed writes are logged by
	// the service.
	return &command.Result{
		Message: fmt.Sprintf("§7Updated §u%d player(s)§7 balance by §a$%d§7.", result.Players, result.Amount),
	}, nil
}
