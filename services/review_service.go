package services

import (
	"errors"
	"math"
	"time"

	"github.com/MuhammadMuzammil21/LocalBites-sub000/entity"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/pkg/apperr"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/repository"

	"gorm.io/gorm"
)

type ReviewService struct {
	DB        *gorm.DB
	Repo      *repository.ReviewRepository
	OrderRepo *repository.OrderRepository
	RestRepo  *repository.RestaurantRepository
	Notify    *NotificationService
}

func NewReviewService(
	db *gorm.DB,
	repo *repository.ReviewRepository,
	orderRepo *repository.OrderRepository,
	restRepo *repository.RestaurantRepository,
	notify *NotificationService,
) *ReviewService {
	return &ReviewService{DB: db, Repo: repo, OrderRepo: orderRepo, RestRepo: restRepo, Notify: notify}
}

type CreateReviewIn struct {
	RestaurantID uint   `json:"restaurantId" binding:"required"`
	Rating       int    `json:"rating" binding:"required,min=1,max=5"`
	Title        string `json:"title"`
	Comment      string `json:"comment"`
}

type UpdateReviewIn struct {
	Rating  *int   `json:"rating" binding:"omitempty,min=1,max=5"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

// Create gates on a delivered order and the one-review-per-restaurant rule,
// then recomputes the restaurant rollup.
func (s *ReviewService) Create(userID uint, in *CreateReviewIn) (*entity.Review, error) {
	if _, err := s.Repo.GetByUserAndRestaurant(userID, in.RestaurantID); err == nil {
		return nil, apperr.New(apperr.DuplicateReview, "you already reviewed this restaurant")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	orderID, err := s.OrderRepo.HasDeliveredOrder(userID, in.RestaurantID)
	if err != nil {
		return nil, err
	}
	if orderID == 0 {
		return nil, apperr.New(apperr.NotEligible, "a delivered order is required to review")
	}

	rev := &entity.Review{
		Rating:       in.Rating,
		Title:        in.Title,
		Comment:      in.Comment,
		UserID:       userID,
		RestaurantID: in.RestaurantID,
		OrderID:      orderID,
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.Create(tx, rev); err != nil {
			return err
		}
		return s.recomputeRating(tx, in.RestaurantID)
	})
	if err != nil {
		return nil, err
	}
	return rev, nil
}

func (s *ReviewService) Update(userID, reviewID uint, in *UpdateReviewIn) (*entity.Review, error) {
	rev, err := s.Repo.Get(reviewID)
	if err != nil {
		return nil, apperr.Wrap(apperr.NotFound, "review not found", err)
	}
	if rev.UserID != userID {
		return nil, apperr.New(apperr.Forbidden, "not your review")
	}

	updates := map[string]any{"title": in.Title, "comment": in.Comment}
	if in.Rating != nil {
		updates["rating"] = *in.Rating
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.Update(tx, rev.ID, updates); err != nil {
			return err
		}
		return s.recomputeRating(tx, rev.RestaurantID)
	})
	if err != nil {
		return nil, err
	}
	return s.Repo.Get(rev.ID)
}

// Reply lets the restaurant owner answer a review, once per review but
// editable.
func (s *ReviewService) Reply(actorID uint, role string, reviewID uint, reply string) error {
	rev, err := s.Repo.Get(reviewID)
	if err != nil {
		return apperr.Wrap(apperr.NotFound, "review not found", err)
	}
	if role != entity.RoleAdmin {
		ok, err := s.RestRepo.IsOwnedBy(rev.RestaurantID, actorID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.New(apperr.Forbidden, "not the restaurant owner")
		}
	}

	now := time.Now()
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		return s.Repo.Update(tx, rev.ID, map[string]any{"owner_reply": reply, "replied_at": now})
	})
	if err != nil {
		return err
	}

	s.Notify.Emit(rev.UserID, entity.NotifReviewReply,
		"The restaurant replied to your review",
		reply,
		NotifData{RestaurantID: rev.RestaurantID, ReviewID: rev.ID})
	return nil
}

func (s *ReviewService) Delete(actorID uint, role string, reviewID uint) error {
	rev, err := s.Repo.Get(reviewID)
	if err != nil {
		return apperr.Wrap(apperr.NotFound, "review not found", err)
	}
	if rev.UserID != actorID && role != entity.RoleAdmin {
		return apperr.New(apperr.Forbidden, "not your review")
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.Delete(tx, rev.ID); err != nil {
			return err
		}
		return s.recomputeRating(tx, rev.RestaurantID)
	})
}

// Hide takes a review out of the public list and the rollup without deleting
// it. Admin moderation only.
func (s *ReviewService) Hide(role string, reviewID uint, hidden bool) error {
	if role != entity.RoleAdmin {
		return apperr.New(apperr.Forbidden, "admin only")
	}
	rev, err := s.Repo.Get(reviewID)
	if err != nil {
		return apperr.Wrap(apperr.NotFound, "review not found", err)
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.Update(tx, rev.ID, map[string]any{"hidden": hidden}); err != nil {
			return err
		}
		return s.recomputeRating(tx, rev.RestaurantID)
	})
}

func (s *ReviewService) ListForRestaurant(restID uint, limit, offset int) ([]entity.Review, float64, int64, error) {
	items, err := s.Repo.ListForRestaurant(restID, limit, offset)
	if err != nil {
		return nil, 0, 0, err
	}
	rest, err := s.RestRepo.Get(restID)
	if err != nil {
		return nil, 0, 0, apperr.Wrap(apperr.NotFound, "restaurant not found", err)
	}
	return items, rest.AvgRating, rest.ReviewCount, nil
}

func (s *ReviewService) ListForUser(userID uint, limit, offset int) ([]entity.Review, error) {
	return s.Repo.ListForUser(userID, limit, offset)
}

// recomputeRating derives the rollup from current non-hidden rows, rounded to
// one decimal. Full recompute every time; there is nothing to drift.
func (s *ReviewService) recomputeRating(tx *gorm.DB, restID uint) error {
	avg, count, err := s.Repo.Aggregate(tx, restID)
	if err != nil {
		return err
	}
	rounded := math.Round(avg*10) / 10
	return s.RestRepo.UpdateRating(tx, restID, rounded, count)
}
