package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/emert/crm-service/internal/model"
	"github.com/emert/crm-service/internal/repository"
)

// Cascade deletes are explicit child deletes inside the caller's transaction
// rather than database-level ON DELETE rules, so the same behavior holds on
// every backend the tests run against.

func deleteQuoteTree(ctx context.Context, tx *gorm.DB, quoteID uint) error {
	quotes := repository.NewQuoteRepository(tx)
	if err := quotes.DeleteItemsByQuote(ctx, quoteID); err != nil {
		return err
	}
	if err := quotes.DeleteDocumentsByQuote(ctx, quoteID); err != nil {
		return err
	}
	return quotes.Delete(ctx, quoteID)
}

func deleteProjectTree(ctx context.Context, tx *gorm.DB, projectID uint) error {
	tasks := repository.NewTaskRepository(tx)
	if err := tasks.DeleteTimeLogsByProject(ctx, projectID); err != nil {
		return err
	}
	if err := tasks.DeleteByProject(ctx, projectID); err != nil {
		return err
	}

	if err := repository.NewRequirementRepository(tx).DeleteByProject(ctx, projectID); err != nil {
		return err
	}

	updates := repository.NewUpdateRepository(tx)
	if err := updates.DeleteAttachmentsByProject(ctx, projectID); err != nil {
		return err
	}
	if err := updates.DeleteByProject(ctx, projectID); err != nil {
		return err
	}

	quoteIDs, err := repository.NewQuoteRepository(tx).ListIDsByProject(ctx, projectID)
	if err != nil {
		return err
	}
	for _, quoteID := range quoteIDs {
		if err := deleteQuoteTree(ctx, tx, quoteID); err != nil {
			return err
		}
	}

	if err := repository.NewCommunicationRepository(tx).DeleteByProject(ctx, projectID); err != nil {
		return err
	}
	if err := tx.WithContext(ctx).Where("project_id = ?", projectID).Delete(&model.Document{}).Error; err != nil {
		return err
	}

	return repository.NewProjectRepository(tx).Delete(ctx, projectID)
}
